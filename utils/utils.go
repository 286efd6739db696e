// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

// Package utils contains small string helpers shared by the address pipeline.
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// UpperASCIIFolding normalizes a string by removing accents, uppercasing, and trimming spaces.
// Reference datasets (maestro de calles, padrón electoral) store names uppercased
// without diacritics, so comparisons happen in that space.
func UpperASCIIFolding(s string) string {
	return strings.ToUpper(LowerASCIIFolding(s))
}

// WordSet splits a string into its unique lowercase words.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})

	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}

	return set
}

// CommonWordPercentage returns what fraction (0-100) of the words of `base`
// also appear in `other`. An empty base yields 0.
func CommonWordPercentage(base, other string) float64 {
	baseWords := WordSet(base)
	if len(baseWords) == 0 {
		return 0
	}

	otherWords := WordSet(other)

	common := 0

	for w := range baseWords {
		if _, ok := otherWords[w]; ok {
			common++
		}
	}

	return float64(common) / float64(len(baseWords)) * 100
}
