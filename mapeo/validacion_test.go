// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidarCoordenadas(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"santiago", -33.4489, -70.6693, false},
		{"punta arenas", -53.1638, -70.9171, false},
		{"isla de pascua", -27.1127, -109.3497, false},
		{"latitud invalida", -91, -70, true},
		{"longitud invalida", -33, 181, true},
		{"buenos aires", -34.6037, -58.3816, true},
		{"hemisferio norte", 40.4168, -3.7038, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidarCoordenadas(tt.lat, tt.lon)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCamposFaltantes(t *testing.T) {
	completa := Consulta{NombreVia: "MONEDA", Numero: "1200", Comuna: "SANTIAGO", Region: "METROPOLITANA DE SANTIAGO"}
	assert.Empty(t, CamposFaltantes(completa))
	require.NoError(t, ValidarConsulta(completa))

	vacia := Consulta{Numero: "1200"}
	assert.Equal(t, []string{"nombre_via", "comuna", "region"}, CamposFaltantes(vacia))

	err := ValidarConsulta(Consulta{NombreVia: "MONEDA", Comuna: "  ", Region: "METROPOLITANA DE SANTIAGO"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comuna")
	assert.NotContains(t, err.Error(), "nombre_via")
}

func TestErroresDeGeocodificacion(t *testing.T) {
	err := ClassifyHTTPError(429, "")
	assert.True(t, IsRateLimitError(err))
	assert.False(t, IsQuotaExceededError(err))

	err = ClassifyHTTPError(403, "")
	assert.True(t, IsQuotaExceededError(err))

	envuelto := &GeocodingError{Type: ErrorTypeTimeout, Message: "se acabó el tiempo"}
	assert.True(t, IsTimeoutError(envuelto))
}
