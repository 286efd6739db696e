// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerASCIIFolding(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello world"},
		{"  Spaces  ", "spaces"},
		{"Áéíóú", "aeiou"},
		{"Ñuñoa", "nunoa"},
		{"Avenida Libertador Bernardo O'Higgins", "avenida libertador bernardo o'higgins"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, LowerASCIIFolding(tc.input))
		})
	}
}

func TestUpperASCIIFolding(t *testing.T) {
	assert.Equal(t, "NUNOA", UpperASCIIFolding("Ñuñoa"))
	assert.Equal(t, "VALPARAISO", UpperASCIIFolding("  Valparaíso "))
}

func TestCommonWordPercentage(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		other    string
		expected float64
	}{
		{"all words present", "av providencia 1000", "Av Providencia 1000, Santiago", 100},
		{"half present", "av providencia", "providencia chile", 50},
		{"none present", "calle uno", "pasaje dos", 0},
		{"empty base", "", "algo", 0},
		{"duplicate words counted once", "sur sur sur", "sur", 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, CommonWordPercentage(tc.base, tc.other), 0.001)
		})
	}
}
