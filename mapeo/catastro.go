// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// CatastroRepository is the cadastral registry (APT): property-level address
// records with exact house numbers, plus a locality table for queries that
// carry no number. A miss is a nil row, not an error.
type CatastroRepository interface {
	BuscarConNumero(ctx context.Context, cut int, nombreVia, numero string) (*FilaCatastro, error)
	BuscarLocalidad(ctx context.Context, codComuna, nombreLocalidad string) (*FilaLocalidad, error)
}

type sqlCatastroRepository struct {
	db *sql.DB
}

// NewCatastroRepository builds a cadastral repository over a DuckDB handle.
func NewCatastroRepository(db *sql.DB) CatastroRepository {
	return &sqlCatastroRepository{db: db}
}

// likeEntreEspacios turns "LOS TRES ALAMOS" into "%LOS%TRES%ALAMOS%" so the
// registry wording may interleave extra words the query lacks.
func likeEntreEspacios(s string) string {
	return "%" + strings.Join(strings.Fields(s), "%") + "%"
}

func (r *sqlCatastroRepository) BuscarConNumero(ctx context.Context, cut int, nombreVia, numero string) (*FilaCatastro, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COD_DIRECCION, NOMBRE_DIRECC, NUMERO, COORDENADA_X, COORDENADA_Y,
		       COD_COMUNA_INE, COD_CALLE, FUENTE, REFERENCIA
		FROM apt_chile
		WHERE COD_COMUNA_INE = ? AND NOMBRE_DIRECC ILIKE ? AND NUMERO = ?
		LIMIT 1
	`, cut, likeEntreEspacios(nombreVia), numero)

	var fila FilaCatastro

	var codDireccion, nombre, num, x, y, fuente, referencia sql.NullString

	var codComuna, codCalle sql.NullInt64

	err := row.Scan(&codDireccion, &nombre, &num, &x, &y, &codComuna, &codCalle, &fuente, &referencia)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	fila.CodDireccion = codDireccion.String
	fila.NombreDirecc = nombre.String
	fila.Numero = num.String
	fila.CoordenadaX = x.String
	fila.CoordenadaY = y.String
	fila.CodComunaINE = int(codComuna.Int64)
	fila.CodCalle = int(codCalle.Int64)
	fila.Fuente = fuente.String
	fila.Referencia = referencia.String

	return &fila, nil
}

func (r *sqlCatastroRepository) BuscarLocalidad(ctx context.Context, codComuna, nombreLocalidad string) (*FilaLocalidad, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id_localid, cod_comuna, comuna, cod_r, region, nombre_localidad,
		       latitud, longitud, tipo
		FROM localidades
		WHERE cod_comuna = ? AND nombre_localidad ILIKE ?
		LIMIT 1
	`, codComuna, likeEntreEspacios(nombreLocalidad))

	var fila FilaLocalidad

	var id sql.NullInt64

	var cod, comuna, codR, region, nombre, lat, lon, tipo sql.NullString

	err := row.Scan(&id, &cod, &comuna, &codR, &region, &nombre, &lat, &lon, &tipo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	fila.IDLocalidad = int(id.Int64)
	fila.CodComuna = cod.String
	fila.Comuna = comuna.String
	fila.CodRegion = codR.String
	fila.Region = region.String
	fila.NombreLocalidad = nombre.String
	fila.Latitud = lat.String
	fila.Longitud = lon.String
	fila.Tipo = tipo.String

	return &fila, nil
}

// CreateCatastroSchema creates the cadastral tables. Ingestion normally
// creates them with read_csv_auto; tests and empty deployments use this.
func CreateCatastroSchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS apt_chile (
			COD_DIRECCION VARCHAR,
			NOMBRE_DIRECC VARCHAR,
			NUMERO VARCHAR,
			COORDENADA_X VARCHAR,
			COORDENADA_Y VARCHAR,
			COD_COMUNA_INE INTEGER,
			COD_CALLE INTEGER,
			FUENTE VARCHAR,
			REFERENCIA VARCHAR
		);
	`); err != nil {
		return err
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS localidades (
			id_localid INTEGER,
			cod_comuna VARCHAR,
			comuna VARCHAR,
			cod_r VARCHAR,
			region VARCHAR,
			nombre_localidad VARCHAR,
			latitud VARCHAR,
			longitud VARCHAR,
			tipo VARCHAR
		);
	`)

	return err
}
