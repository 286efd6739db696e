// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"github.com/geochile/mapeo/spatial"
)

// Origin tags of a resolution. Fixed vocabulary: consumers key dashboards
// and quality reports on these exact strings.
const (
	OrigenCatastro          = "APT CHILE"
	OrigenCatastroLocalidad = "APT LOCALIDADES"
	OrigenPadronPersona     = "SERVEL_DIRECCION_PERSONA"
	OrigenPadronLocalidad   = "SERVEL_LOCALIDADES"
	OrigenNominatim         = "Nominatim"
	OrigenGoogleMaps        = "Google Maps"
	OrigenNoEncontrada      = "DIRECCION NO ENCONTRADA"
)

// Resumen is the flat answer of a resolution. Coordinates are pointers: the
// centroid fallback can come up empty-handed when the gazetteer never
// matched, and that is a null in the payload, not a zero on the equator.
type Resumen struct {
	Origen    string   `json:"origen"`
	Direccion string   `json:"direccion"`
	Latitud   *float64 `json:"latitud"`
	Longitud  *float64 `json:"longitud"`
}

// Punto returns the coordinates as a spatial point when both are present.
func (r *Resumen) Punto() (spatial.Point, bool) {
	if r.Latitud == nil || r.Longitud == nil {
		return spatial.Point{}, false
	}

	return spatial.Point{Lat: *r.Latitud, Lng: *r.Longitud}, true
}

// Resolucion is the full response: the answer, the commune containment
// verdict, and the working record as the observability trace.
type Resolucion struct {
	Coords Resumen `json:"coords"`

	// Frontera is nil when the check could not run; FronteraError then
	// says why. The verdict never alters Coords.
	Frontera      *ResultadoFrontera `json:"geopanda,omitempty"`
	FronteraError string             `json:"geopanda_error,omitempty"`

	Traza *Direccion `json:"traza,omitempty"`
}

func resumenDesdeCadena(origen, direccion, lat, lon string) (Resumen, bool) {
	p, ok := spatial.ParsePoint(lat, lon)
	if !ok {
		return Resumen{}, false
	}

	return Resumen{
		Origen:    origen,
		Direccion: direccion,
		Latitud:   &p.Lat,
		Longitud:  &p.Lng,
	}, true
}

func resumenDesdeFloat(origen, direccion string, lat, lon float64) Resumen {
	return Resumen{
		Origen:    origen,
		Direccion: direccion,
		Latitud:   &lat,
		Longitud:  &lon,
	}
}
