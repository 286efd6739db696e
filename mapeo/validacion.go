// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"fmt"
	"strings"
)

// Límites razonables para Chile continental e insular (con margen).
// Chile: aproximadamente 17°S a 56°S, 66°W a 76°W; Isla de Pascua
// extiende el poniente hasta ~110°W.
const (
	chileMinLat = -57.0
	chileMaxLat = -16.0
	chileMinLon = -112.0
	chileMaxLon = -65.0
)

// ValidarCoordenadas verifica que las coordenadas sean válidas y estén
// dentro del territorio nacional.
func ValidarCoordenadas(lat, lon float64) error {
	// Límites globales
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitud debe estar entre -90 y 90 (recibido: %f)", lat)
	}

	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitud debe estar entre -180 y 180 (recibido: %f)", lon)
	}

	if lat < chileMinLat || lat > chileMaxLat {
		return fmt.Errorf("latitud fuera de los límites de Chile (%f a %f): %f", chileMinLat, chileMaxLat, lat)
	}

	if lon < chileMinLon || lon > chileMaxLon {
		return fmt.Errorf("longitud fuera de los límites de Chile (%f a %f): %f", chileMinLon, chileMaxLon, lon)
	}

	return nil
}

// CamposFaltantes lista los campos obligatorios ausentes de la consulta.
// La vía, la comuna y la región son el mínimo para entrar a la cascada; el
// número y la provincia son opcionales.
func CamposFaltantes(c Consulta) []string {
	var faltan []string

	if strings.TrimSpace(c.NombreVia) == "" {
		faltan = append(faltan, "nombre_via")
	}

	if strings.TrimSpace(c.Comuna) == "" {
		faltan = append(faltan, "comuna")
	}

	if strings.TrimSpace(c.Region) == "" {
		faltan = append(faltan, "region")
	}

	return faltan
}

// ValidarConsulta retorna un error describiendo los campos faltantes, o nil.
func ValidarConsulta(c Consulta) error {
	if faltan := CamposFaltantes(c); len(faltan) > 0 {
		return fmt.Errorf("faltan campos obligatorios: %s", strings.Join(faltan, ", "))
	}

	return nil
}
