// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func direccionDePrueba() (*Direccion, *Direccion) {
	pristina := NuevaDireccion(Consulta{
		NombreVia: "MONEDA",
		Numero:    "1200",
		Comuna:    "SANTIAGO",
		Region:    "METROPOLITANA DE SANTIAGO",
	})

	return pristina.Copia(), pristina
}

func TestCalificarSinMatch(t *testing.T) {
	d, pristina := direccionDePrueba()
	d.NombreVia = "ALGO QUE NO ES"
	d.Comuna = "OTRA"
	d.Region = "OTRA"

	Calificar(d, pristina, "MONEDA", false)

	assert.Equal(t, 0, d.Confianza)
	assert.Equal(t, "MONEDA", d.NombreVia)
	assert.Equal(t, "SANTIAGO", d.Comuna)
	assert.Equal(t, "METROPOLITANA DE SANTIAGO", d.Region)
}

func TestCalificarTodoCoincide(t *testing.T) {
	d, pristina := direccionDePrueba()

	// The gazetteer returned the street exactly as normalized.
	Calificar(d, pristina, "MONEDA", true)

	assert.Equal(t, ConfianzaTotal, d.Confianza)
	assert.Equal(t, "MONEDA", d.NombreVia)
}

func TestCalificarCallejeroReescribioLaCalle(t *testing.T) {
	d, pristina := direccionDePrueba()
	// The matcher adopted a different wording than the normalizer's.
	d.NombreVia = "MONEDA ORIENTE"

	Calificar(d, pristina, "MONEDA", true)

	// Street points withheld, commune and region still count, and below
	// 100 the pristine wording wins.
	assert.Equal(t, PuntosComuna+PuntosRegion, d.Confianza)
	assert.Equal(t, "MONEDA", d.NombreVia)
}

func TestCalificarComunaDistinta(t *testing.T) {
	d, pristina := direccionDePrueba()
	d.Comuna = "ESTACION CENTRAL"

	Calificar(d, pristina, "MONEDA", true)

	assert.Equal(t, PuntosNombreVia+PuntosRegion, d.Confianza)
	assert.Equal(t, "MONEDA", d.NombreVia, "partial scores never keep the gazetteer wording")
}

func TestCalificarComunaIgnoraTildes(t *testing.T) {
	pristina := NuevaDireccion(Consulta{
		NombreVia: "IRARRAZAVAL",
		Numero:    "10",
		Comuna:    "Ñuñoa",
		Region:    "Metropolitana de Santiago",
	})
	d := pristina.Copia()
	d.Comuna = "NUNOA"
	d.Region = "METROPOLITANA DE SANTIAGO"

	Calificar(d, pristina, "IRARRAZAVAL", true)

	assert.Equal(t, ConfianzaTotal, d.Confianza)
}

func TestCalificarCalleDivergente(t *testing.T) {
	d, pristina := direccionDePrueba()
	// The gazetteer matched a street whose wording has nothing to do with
	// the query. The normalizer produced the same wording, so the equality
	// half of the street gate passes but the resemblance half does not.
	d.NombreVia = "CARDENAL JOSE MARIA CARO"
	d.Callejero = &DatosCallejeros{Cut: "13101", CenLat: "-33.44", CenLon: "-70.65"}

	Calificar(d, pristina, "CARDENAL JOSE MARIA CARO", true)

	assert.Equal(t, PuntosComuna+PuntosRegion, d.Confianza)
	assert.Equal(t, "MONEDA", d.NombreVia, "divergent gazetteer wording is discarded")
	require.NotNil(t, d.Callejero)
	assert.Equal(t, "13101", d.Callejero.Cut, "territorial codes are kept for the registry lookups")
}

func TestCalificarMonotonia(t *testing.T) {
	// Adding one more exact field never lowers the score.
	base := NuevaDireccion(Consulta{
		NombreVia: "BAQUEDANO",
		Numero:    "77",
		Comuna:    "IQUIQUE",
		Region:    "TARAPACA",
	})

	escenarios := []struct {
		comuna string
		region string
	}{
		{"OTRA", "OTRA"},
		{"IQUIQUE", "OTRA"},
		{"IQUIQUE", "TARAPACA"},
	}

	anterior := -1

	for _, e := range escenarios {
		d := base.Copia()
		d.Comuna = e.comuna
		d.Region = e.region

		Calificar(d, base, "BAQUEDANO", true)

		require.GreaterOrEqual(t, d.Confianza, anterior)
		anterior = d.Confianza
	}
}
