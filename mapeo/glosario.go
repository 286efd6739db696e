// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed jerarquias.json
var jerarquiasJSON []byte

//go:embed abreviaciones.json
var abreviacionesJSON []byte

// UmbralGlosario is the minimum Ratio for a word to be corrected to a
// glossary canonical key.
const UmbralGlosario = 80

// Glosario maps canonical tokens to their accepted variant spellings.
// Loaded once at process start and shared read-only across requests.
type Glosario struct {
	// claves holds the canonical keys sorted lexicographically. Fuzzy
	// matching iterates them in this order and keeps the first best hit,
	// so corrections are reproducible run to run.
	claves []string

	// canonicas resolves any exact key or variant spelling (uppercased)
	// to its canonical key.
	canonicas map[string]string
}

// NuevoGlosario builds a Glosario from a JSON object of the form
// {"CANONICA": ["VARIANTE", ...], ...}.
func NuevoGlosario(data []byte) (*Glosario, error) {
	var entradas map[string][]string
	if err := json.Unmarshal(data, &entradas); err != nil {
		return nil, fmt.Errorf("parsing glossary: %w", err)
	}

	g := &Glosario{
		claves:    make([]string, 0, len(entradas)),
		canonicas: make(map[string]string),
	}

	for clave, variantes := range entradas {
		clave = strings.ToUpper(strings.TrimSpace(clave))
		g.claves = append(g.claves, clave)
		g.canonicas[clave] = clave

		for _, v := range variantes {
			g.canonicas[strings.ToUpper(strings.TrimSpace(v))] = clave
		}
	}

	sort.Strings(g.claves)

	return g, nil
}

// GlosarioJerarquias loads the embedded street-type glossary.
func GlosarioJerarquias() (*Glosario, error) {
	return NuevoGlosario(jerarquiasJSON)
}

// GlosarioAbreviaciones loads the embedded abbreviation glossary.
func GlosarioAbreviaciones() (*Glosario, error) {
	return NuevoGlosario(abreviacionesJSON)
}

// Corregir returns the canonical key closest to palabra when the similarity
// reaches UmbralGlosario, and whether a correction happened. Ties keep the
// first key in sorted order. The input is expected already normalized
// (uppercased, periods stripped).
func (g *Glosario) Corregir(palabra string) (string, bool) {
	mejor := ""
	mejorSimilitud := 0

	for _, clave := range g.claves {
		similitud := Ratio(palabra, clave)
		if similitud > mejorSimilitud && similitud >= UmbralGlosario {
			mejor = clave
			mejorSimilitud = similitud
		}
	}

	if mejor == "" {
		return palabra, false
	}

	return mejor, true
}

// Canonica resolves an exact key or accepted variant to its canonical key.
func (g *Glosario) Canonica(palabra string) (string, bool) {
	clave, ok := g.canonicas[palabra]

	return clave, ok
}

// Claves returns the canonical keys in their stable iteration order.
func (g *Glosario) Claves() []string {
	return g.claves
}
