// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsultasPadronInterpolanUmbrales(t *testing.T) {
	assert.Contains(t, consultaPadronPersona, "> 0.6")
	assert.Contains(t, consultaPadronPersona, "> 0.9")
	assert.Contains(t, consultaPadronPersona, "ORDER BY score DESC, dp.created_at DESC")
	assert.Contains(t, consultaPadronLocalidad, "> 0.9")
	assert.NotContains(t, consultaPadronLocalidad, "%!")
}

func TestFormatearPadron(t *testing.T) {
	fila := &FilaPadronPersona{
		Score:     0.87,
		NombreVia: "LOS CARRERA",
		Numero:    "301",
		Provincia: "ELQUI",
		Comuna:    "COQUIMBO",
		Region:    "COQUIMBO",
		Latitud:   -29.953,
		Longitud:  -71.338,
		CreadaEn:  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "LOS CARRERA 301, ELQUI, COQUIMBO, COQUIMBO", FormatearPadron(fila))
}
