// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"strings"

	"github.com/geochile/mapeo/utils"
)

// terminosRurales flags addresses that name rural infrastructure instead of
// an urban street. Matching is accent and case insensitive; KM is matched as
// a whole token so it does not fire inside ordinary words.
var terminosRurales = []string{
	"RUTA",
	"KILOMETRO",
	"FUNDO",
	"PARCELA",
	"SECTOR",
	"LOTE",
	"HIJUELA",
}

// EsRural reports whether a raw street name contains a rural indicator term.
// Rural addresses bypass glossary normalization: the maestro de calles only
// describes urban street naming.
func EsRural(nombreVia string) bool {
	texto := utils.UpperASCIIFolding(nombreVia)

	for _, termino := range terminosRurales {
		if strings.Contains(texto, termino) {
			return true
		}
	}

	for _, palabra := range strings.Fields(texto) {
		if strings.TrimRight(palabra, ".") == "KM" {
			return true
		}
	}

	return false
}

// ProcesarNumero sanitizes a house number: "S/N" style sentinels, zero and
// blanks all normalize to the empty string.
func ProcesarNumero(numero string) string {
	limpio := strings.TrimSpace(numero)

	switch utils.UpperASCIIFolding(limpio) {
	case "", "S/N", "SN", "S N", "S-N", "SIN NUMERO", "0":
		return ""
	}

	return limpio
}

// NormalizarTexto strips periods, trims and uppercases a token, the shared
// canonical form for glossary and gazetteer comparisons.
func NormalizarTexto(texto string) string {
	return strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(texto, ".", "")))
}

// Normalizador corrects the words of a street name against the hierarchy and
// abbreviation glossaries. Both glossaries are immutable; a single
// Normalizador serves every request concurrently.
type Normalizador struct {
	jerarquias    *Glosario
	abreviaciones *Glosario
}

// NuevoNormalizador builds a Normalizador from the embedded glossaries.
func NuevoNormalizador() (*Normalizador, error) {
	jerarquias, err := GlosarioJerarquias()
	if err != nil {
		return nil, err
	}

	abreviaciones, err := GlosarioAbreviaciones()
	if err != nil {
		return nil, err
	}

	return &Normalizador{jerarquias: jerarquias, abreviaciones: abreviaciones}, nil
}

// Procesar rewrites d.NombreVia word by word:
//
//  1. each word is normalized (periods stripped, uppercased);
//  2. it is fuzzy-corrected against the hierarchy glossary keys, and only if
//     that finds nothing, against the abbreviation glossary keys;
//  3. the first word in the whole name that resolves (exactly, by key or
//     accepted variant) to a hierarchy canonical key fixes d.Jerarquia once.
//
// Rural addresses skip all of it; the original input flows through unchanged
// with d.Rural set.
func (n *Normalizador) Procesar(d *Direccion) {
	if EsRural(d.NombreVia) {
		d.Rural = true

		return
	}

	palabras := strings.Fields(d.NombreVia)
	corregidas := make([]string, 0, len(palabras))

	for _, palabra := range palabras {
		corregida, enJerarquia := n.jerarquias.Corregir(NormalizarTexto(palabra))
		if !enJerarquia {
			corregida, _ = n.abreviaciones.Corregir(corregida)
		}

		if canonica, ok := n.jerarquias.Canonica(corregida); ok && d.Jerarquia == "" {
			d.Jerarquia = canonica
		}

		corregidas = append(corregidas, corregida)
	}

	d.NombreVia = strings.Join(corregidas, " ")
}
