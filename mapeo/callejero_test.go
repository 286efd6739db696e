// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callejeroFijo struct {
	filas []FilaCallejero
}

func (r *callejeroFijo) Candidatas(_ context.Context, _, _, _ string) ([]FilaCallejero, error) {
	return r.filas, nil
}

func TestPuntuarGating(t *testing.T) {
	fila := FilaCallejero{
		Jerarquia: "AVENIDA",
		NombreVia: "PROVIDENCIA",
		Comuna:    "PROVIDENCIA",
		Region:    "METROPOLITANA DE SANTIAGO",
	}

	c := puntuar(fila, "AVENIDA", "PROVIDENCIA", "METROPOLITANA DE SANTIAGO", "PROVIDENCIA")

	assert.Equal(t, 100, c.SimilitudJerarquia)
	assert.Equal(t, 100, c.SimilitudComuna)
	assert.Equal(t, 100, c.SimilitudRegion)
	assert.Equal(t, 100, c.SimilitudCalle)
	assert.Equal(t, 400, c.Puntaje)

	// A near-miss below every gate contributes nothing even though the
	// raw similarities are non-zero.
	lejos := puntuar(fila, "PASAJE", "LAS CONDES", "VALPARAISO", "APOQUINDO NORTE")
	assert.Equal(t, 0, lejos.Puntaje)
}

func TestPuntuarJerarquiaGateIsStrict(t *testing.T) {
	// Exactly 70 on the hierarchy must NOT contribute; 70 on the commune
	// must. "AVENIDA" vs "AVE" is 100-4*100/7 = 42, so craft pairs at the
	// boundary instead.
	fila := FilaCallejero{Jerarquia: "ABCDEFGHIJ", Comuna: "ABCDEFGHIJ"}

	// dist 3 over len 10 -> 70 exactly.
	c := puntuar(fila, "ABCDEFGXYZ", "ABCDEFGXYZ", "", "")

	assert.Equal(t, 70, c.SimilitudJerarquia)
	assert.Equal(t, 70, c.SimilitudComuna)
	assert.Equal(t, 70, c.Puntaje, "only the commune clears its inclusive gate")
}

func TestMejorEligePrimeraEnEmpate(t *testing.T) {
	repo := &callejeroFijo{filas: []FilaCallejero{
		{Jerarquia: "CALLE", NombreVia: "LOS AROMOS", Comuna: "TALCA", Provincia: "TALCA", Region: "MAULE", Cut: "7101", CutR: "7"},
		{Jerarquia: "CALLE", NombreVia: "LOS AROMOS", Comuna: "TALCA", Provincia: "TALCA", Region: "MAULE", Cut: "9999", CutR: "9"},
	}}

	d := NuevaDireccion(Consulta{NombreVia: "LOS AROMOS", Numero: "45", Comuna: "TALCA", Region: "MAULE"})
	d.Jerarquia = "CALLE"

	ok, err := NuevoMatcherCallejero(repo).Mejor(context.Background(), d)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "7101", d.Callejero.Cut, "ties keep the first row in storage order")
}

func TestMejorMutaDireccion(t *testing.T) {
	repo := &callejeroFijo{filas: []FilaCallejero{
		{
			Jerarquia: "AVENIDA", NombreVia: "LIBERTADOR BERNARDO O'HIGGINS",
			Comuna: "SANTIAGO", Provincia: "SANTIAGO", Region: "METROPOLITANA DE SANTIAGO",
			Cut: "13101", CutR: "13", CenLat: "-33.45", CenLon: "-70.66",
		},
		{
			Jerarquia: "CALLE", NombreVia: "LIBERTADORES",
			Comuna: "COLINA", Provincia: "CHACABUCO", Region: "METROPOLITANA DE SANTIAGO",
			Cut: "13301", CutR: "13",
		},
	}}

	d := NuevaDireccion(Consulta{
		NombreVia: "LIBERTADOR BERNARDO OHIGGINS",
		Numero:    "1000",
		Comuna:    "SANTIAGO",
		Region:    "METROPOLITANA DE SANTIAGO",
	})
	d.Jerarquia = "AVENIDA"

	ok, err := NuevoMatcherCallejero(repo).Mejor(context.Background(), d)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "LIBERTADOR BERNARDO O'HIGGINS", d.NombreVia)
	assert.Equal(t, "SANTIAGO", d.Comuna)
	assert.Equal(t, "SANTIAGO", d.Provincia)
	require.NotNil(t, d.Callejero)
	assert.Equal(t, "13101", d.Callejero.Cut)
	assert.Equal(t, "-33.45", d.Callejero.CenLat)
	assert.Equal(t,
		"AVENIDA LIBERTADOR BERNARDO O'HIGGINS 1000, SANTIAGO, SANTIAGO, METROPOLITANA DE SANTIAGO",
		d.DireccionFormateada)
}

func TestMejorSinCandidatas(t *testing.T) {
	d := NuevaDireccion(Consulta{NombreVia: "INEXISTENTE", Comuna: "ARICA", Region: "ARICA Y PARINACOTA"})

	ok, err := NuevoMatcherCallejero(&callejeroFijo{}).Mejor(context.Background(), d)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, d.Callejero)
	assert.Equal(t, "INEXISTENTE", d.NombreVia)
}

func setupCallejeroDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := CreateCallejeroSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

func TestCallejeroRepositoryCandidatas(t *testing.T) {
	db := setupCallejeroDB(t)

	_, err := db.Exec(`INSERT INTO maestro_calles VALUES
		('AVENIDA', 'PROVIDENCIA', 'Providencia', 'Santiago', 'Metropolitana de Santiago', '13123', '13', '-33.43', '-70.61'),
		('CALLE', 'PRAT', 'Valparaíso', 'Valparaíso', 'Valparaíso', '5101', '5', '-33.04', '-71.62')`)
	if err != nil {
		t.Fatalf("Failed to seed gazetteer: %v", err)
	}

	repo := NewCallejeroRepository(db)

	filas, err := repo.Candidatas(context.Background(), "PROVIDENCIA", "METROPOLITANA DE SANTIAGO", "PROVIDENCIA")
	if err != nil {
		t.Fatalf("Candidatas() error = %v", err)
	}

	if len(filas) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(filas))
	}

	if filas[0].Cut != "13123" {
		t.Errorf("Expected CUT 13123, got %q", filas[0].Cut)
	}

	// The street pre-filter is case-insensitive and partial.
	filas, err = repo.Candidatas(context.Background(), "NO EXISTE", "NO EXISTE", "prat")
	if err != nil {
		t.Fatalf("Candidatas() error = %v", err)
	}

	if len(filas) != 1 || filas[0].NombreVia != "PRAT" {
		t.Fatalf("Expected the PRAT row, got %+v", filas)
	}
}
