// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"strings"

	"github.com/geochile/mapeo/utils"
)

// Confidence scoring weights and gates. Full trust in the gazetteer wording
// is all-or-nothing: any shortfall keeps the user's original street name.
const (
	PuntosNombreVia = 34
	PuntosComuna    = 33
	PuntosRegion    = 33

	// UmbralNombreVia gates the street-name points and the final
	// divergence check against the pristine input.
	UmbralNombreVia = 50

	// ConfianzaTotal is the score required for the cadastral answer to be
	// terminal without consulting further sources.
	ConfianzaTotal = 100
)

// Calificar compares the gazetteer-corrected working record against the
// user's pristine input and computes the 0-100 confidence score.
//
// The rules, in order:
//   - no gazetteer match: confidence stays 0 and the pristine street,
//     commune and region are restored (the gazetteer contributed nothing);
//   - street-name points only when the corrected name survived gazetteer
//     matching unchanged AND still resembles the raw input (> UmbralNombreVia);
//   - exact commune and exact region each add their points;
//   - any total below ConfianzaTotal discards the gazetteer's street wording
//     in favor of the user's original — the engine never blends the two.
//
// After scoring, a second check guards against a divergent gazetteer answer:
// when the working street name no longer resembles the pristine one
// (< UmbralNombreVia), every gazetteer mutation is reverted.
//
// normalizada is the street name as it left the Token Normalizer, before the
// gazetteer possibly rewrote it. pristina is the untouched pre-normalization
// record.
func Calificar(d *Direccion, pristina *Direccion, normalizada string, hayMatch bool) {
	d.Confianza = 0

	if !hayMatch {
		d.NombreVia = pristina.NombreVia
		d.Comuna = pristina.Comuna
		d.Region = pristina.Region

		return
	}

	similitud := Ratio(strings.ToUpper(d.NombreVia), strings.ToUpper(pristina.NombreVia))
	if d.NombreVia == normalizada && similitud > UmbralNombreVia {
		d.Confianza += PuntosNombreVia
	} else {
		d.NombreVia = pristina.NombreVia
	}

	if utils.UpperASCIIFolding(d.Comuna) == utils.UpperASCIIFolding(pristina.Comuna) {
		d.Confianza += PuntosComuna
	}

	if utils.UpperASCIIFolding(d.Region) == utils.UpperASCIIFolding(pristina.Region) {
		d.Confianza += PuntosRegion
	}

	if d.Confianza < ConfianzaTotal {
		d.NombreVia = pristina.NombreVia
	}

	exactitud := Ratio(strings.ToUpper(d.NombreVia), strings.ToUpper(pristina.NombreVia))
	if exactitud < UmbralNombreVia {
		callejero := d.Callejero
		confianza := d.Confianza

		*d = *pristina

		// Territorial codes and the centroid survive the revert: they
		// feed the registry lookups and the terminal fallback even when
		// the gazetteer's wording is rejected.
		d.Callejero = callejero
		d.Confianza = confianza
	}
}
