// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapeo implements the address normalization and multi-source
// resolution engine: glossary-based token correction, gazetteer scoring,
// confidence computation, and the cascading lookup over the cadastral
// registry, the electoral roll, external geocoders, and the commune
// centroid fallback.
package mapeo

import (
	"github.com/agnivade/levenshtein"
)

// Ratio computes a 0-100 similarity between two strings as a normalized
// Levenshtein edit distance: 100*(1 - distance/maxlen). Identical strings
// score 100, fully disjoint strings 0. The acceptance thresholds used across
// the engine (50, 70, 80) were tuned against this metric; keep them together.
// Comparisons are case sensitive; callers fold case first.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	ra, rb := []rune(a), []rune(b)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	if maxLen == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)

	return 100 - dist*100/maxLen
}
