// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func setupCatastroDB(t *testing.T) CatastroRepository {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := CreateCatastroSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	_, err = db.Exec(`INSERT INTO apt_chile VALUES
		('D-1', 'AVENIDA LOS TRES ALAMOS', '455', '-70.6123', '-33.4871', 13123, 901, 'SII', ''),
		('D-2', 'AVENIDA LOS TRES ALAMOS', '461', '-70.6125', '-33.4873', 13123, 901, 'SII', '')`)
	if err != nil {
		t.Fatalf("Failed to seed apt_chile: %v", err)
	}

	_, err = db.Exec(`INSERT INTO localidades VALUES
		(7, '9112', 'PUCON', '9', 'LA ARAUCANIA', 'CANDELARIA', '-39.2534', '-71.8881', 'ALDEA')`)
	if err != nil {
		t.Fatalf("Failed to seed localidades: %v", err)
	}

	return NewCatastroRepository(db)
}

func TestBuscarConNumero(t *testing.T) {
	repo := setupCatastroDB(t)
	ctx := context.Background()

	// The street filter joins words with wildcards, so partial wording
	// still hits.
	fila, err := repo.BuscarConNumero(ctx, 13123, "LOS ALAMOS", "455")
	if err != nil {
		t.Fatalf("BuscarConNumero() error = %v", err)
	}

	if fila == nil {
		t.Fatal("Expected a match, got nil")
	}

	if fila.CodDireccion != "D-1" {
		t.Errorf("Expected D-1, got %q", fila.CodDireccion)
	}

	if fila.CoordenadaX != "-70.6123" || fila.CoordenadaY != "-33.4871" {
		t.Errorf("Unexpected coordinates: %q, %q", fila.CoordenadaX, fila.CoordenadaY)
	}

	// Exact number, wrong commune: miss, not error.
	fila, err = repo.BuscarConNumero(ctx, 5101, "LOS ALAMOS", "455")
	if err != nil {
		t.Fatalf("BuscarConNumero() error = %v", err)
	}

	if fila != nil {
		t.Fatalf("Expected nil for wrong commune, got %+v", fila)
	}

	// The number is exact, never fuzzy.
	fila, err = repo.BuscarConNumero(ctx, 13123, "LOS ALAMOS", "456")
	if err != nil {
		t.Fatalf("BuscarConNumero() error = %v", err)
	}

	if fila != nil {
		t.Fatalf("Expected nil for wrong number, got %+v", fila)
	}
}

func TestBuscarLocalidad(t *testing.T) {
	repo := setupCatastroDB(t)
	ctx := context.Background()

	fila, err := repo.BuscarLocalidad(ctx, "9112", "candelaria")
	if err != nil {
		t.Fatalf("BuscarLocalidad() error = %v", err)
	}

	if fila == nil {
		t.Fatal("Expected a match, got nil")
	}

	expected := &FilaLocalidad{
		IDLocalidad:     7,
		CodComuna:       "9112",
		Comuna:          "PUCON",
		CodRegion:       "9",
		Region:          "LA ARAUCANIA",
		NombreLocalidad: "CANDELARIA",
		Latitud:         "-39.2534",
		Longitud:        "-71.8881",
		Tipo:            "ALDEA",
	}
	if diff := cmp.Diff(expected, fila); diff != "" {
		t.Errorf("Unexpected row (-want +got):\n%s", diff)
	}

	fila, err = repo.BuscarLocalidad(ctx, "9999", "CANDELARIA")
	if err != nil {
		t.Fatalf("BuscarLocalidad() error = %v", err)
	}

	if fila != nil {
		t.Fatalf("Expected nil for unknown commune, got %+v", fila)
	}
}
