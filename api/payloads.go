// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/geochile/mapeo/mapeo"
)

// RequestGetGeo is the body of POST /getgeo/.
type RequestGetGeo struct {
	NombreVia string `json:"nombre_via"`
	Numero    string `json:"numero"`
	Comuna    string `json:"comuna"`
	Region    string `json:"region"`
	Provincia string `json:"provincia"`
	// Show selects the payload shape: "coords" returns the flat answer
	// with the boundary verdict folded in; anything else returns the full
	// resolution with the trace.
	Show string `json:"show"`
}

// Consulta maps the request onto a resolution query.
func (r *RequestGetGeo) Consulta() mapeo.Consulta {
	return mapeo.Consulta{
		NombreVia: r.NombreVia,
		Numero:    r.Numero,
		Comuna:    r.Comuna,
		Region:    r.Region,
		Provincia: r.Provincia,
	}
}

// RespuestaAdvertencia is returned, with HTTP 200, when required fields are
// missing: the caller sent something we can acknowledge but not resolve.
type RespuestaAdvertencia struct {
	Message  string        `json:"message"`
	Warnings string        `json:"warnings"`
	Data     RequestGetGeo `json:"data"`
}

// RespuestaCoords is the flat "show=coords" payload.
type RespuestaCoords struct {
	mapeo.Resumen

	Geopanda *mapeo.ResultadoFrontera `json:"geopanda,omitempty"`
	Error    string                   `json:"geopanda_error,omitempty"`
}
