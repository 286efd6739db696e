// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Trigram-similarity gates of the electoral-roll queries (pg_trgm scale,
// 0.0-1.0). Business rules, not tuning knobs.
const (
	// UmbralPadronVia gates the street-name similarity of a person-address
	// lookup.
	UmbralPadronVia = 0.6
	// UmbralPadronTerritorio lets a fuzzy commune or region name stand in
	// for a missing territorial code in the joins.
	UmbralPadronTerritorio = 0.9
	// UmbralPadronLocalidad gates locality-name lookups, which have no
	// house number to disambiguate and therefore demand a near-exact name.
	UmbralPadronLocalidad = 0.9
)

// The similarity gates live in Go constants; the SQL interpolates them once
// at package init so the business rule has a single home.
var (
	consultaPadronPersona = fmt.Sprintf(`
		SELECT
			SIMILARITY(UPPER(dp.nombre_via), UPPER($1)) AS score,
			c.comuna,
			c.provincia,
			r.region,
			r.cut_reg,
			c.cut_com,
			dp.tipo_via,
			dp.nombre_via,
			dp.numero,
			dp.localidad,
			dp.latitud,
			dp.longitud,
			dp.created_at
		FROM direccion_persona dp
		INNER JOIN regiones r
			ON ((r.cut_reg = dp.cut_region OR r.cut_reg = $5)
				OR SIMILARITY(UPPER(r.region), UPPER($3)) > %[1]v)
		INNER JOIN comunas c
			ON ((c.cut_com = dp.cut_comuna OR c.cut_com = $4)
				OR SIMILARITY(UPPER(c.comuna), UPPER($2)) > %[1]v)
		WHERE dp.numero = $6
			AND SIMILARITY(UPPER(dp.nombre_via), UPPER($1)) > %[2]v
		ORDER BY score DESC, dp.created_at DESC, dp.updated_at DESC
		LIMIT 1
	`, UmbralPadronTerritorio, UmbralPadronVia)

	consultaPadronLocalidad = fmt.Sprintf(`
		SELECT
			SIMILARITY(UPPER(l.nombre), UPPER($1)) AS score,
			l.nombre,
			c.comuna,
			r.region,
			l.cod_comuna,
			l.latitud,
			l.longitud
		FROM localidades l
		INNER JOIN regiones r
			ON (CAST(r.cut_reg AS INTEGER) = l.region
				OR CAST(NULLIF($5, '') AS INTEGER) = l.region
				OR SIMILARITY(UPPER(r.region), UPPER($3)) > %[1]v)
		INNER JOIN comunas c
			ON (CAST(c.cut_com AS INTEGER) = l.cod_comuna
				OR CAST(NULLIF($4, '') AS INTEGER) = l.cod_comuna
				OR SIMILARITY(UPPER(c.comuna), UPPER($2)) > %[1]v)
		WHERE SIMILARITY(UPPER(l.nombre), UPPER($1)) > %[2]v
		ORDER BY l.created_date
		LIMIT 1
	`, UmbralPadronTerritorio, UmbralPadronLocalidad)
)

// PadronRepository is the electoral roll: voter-registration addresses in
// Postgres, fuzzy-matched server side with pg_trgm. A miss is a nil row.
type PadronRepository interface {
	BuscarPersona(ctx context.Context, nombreVia, numero, comuna, region, cutCom, cutReg string) (*FilaPadronPersona, error)
	BuscarLocalidad(ctx context.Context, nombre, comuna, region, cutCom, cutReg string) (*FilaPadronLocalidad, error)
}

type sqlPadronRepository struct {
	db *sql.DB
}

// NewPadronRepository builds an electoral-roll repository over a Postgres
// handle (lib/pq). The database must have the pg_trgm extension installed.
func NewPadronRepository(db *sql.DB) PadronRepository {
	return &sqlPadronRepository{db: db}
}

// BuscarPersona returns the best person-address row: exact house number,
// street similarity above UmbralPadronVia, commune and region tied down by
// code equality or near-exact name. Ties prefer the most recent row.
func (r *sqlPadronRepository) BuscarPersona(ctx context.Context, nombreVia, numero, comuna, region, cutCom, cutReg string) (*FilaPadronPersona, error) {
	row := r.db.QueryRowContext(ctx, consultaPadronPersona,
		nombreVia, comuna, region, cutCom, cutReg, numero)

	var fila FilaPadronPersona

	var comunaCol, provincia, regionCol, cutR, cutC, tipoVia, nombre, num, localidad sql.NullString

	var lat, lon sql.NullFloat64

	var creadaEn sql.NullTime

	err := row.Scan(&fila.Score, &comunaCol, &provincia, &regionCol, &cutR, &cutC,
		&tipoVia, &nombre, &num, &localidad, &lat, &lon, &creadaEn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	fila.Comuna = comunaCol.String
	fila.Provincia = provincia.String
	fila.Region = regionCol.String
	fila.CutReg = cutR.String
	fila.CutCom = cutC.String
	fila.TipoVia = tipoVia.String
	fila.NombreVia = nombre.String
	fila.Numero = num.String
	fila.Localidad = localidad.String
	fila.Latitud = lat.Float64
	fila.Longitud = lon.Float64
	fila.CreadaEn = creadaEn.Time

	return &fila, nil
}

// BuscarLocalidad returns the best electoral locality row for a query with
// no house number. The name must be near-exact.
func (r *sqlPadronRepository) BuscarLocalidad(ctx context.Context, nombre, comuna, region, cutCom, cutReg string) (*FilaPadronLocalidad, error) {
	row := r.db.QueryRowContext(ctx, consultaPadronLocalidad,
		nombre, comuna, region, cutCom, cutReg)

	var fila FilaPadronLocalidad

	var nom, com, reg sql.NullString

	var codComuna sql.NullInt64

	var lat, lon sql.NullFloat64

	err := row.Scan(&fila.Score, &nom, &com, &reg, &codComuna, &lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	fila.Nombre = nom.String
	fila.Comuna = com.String
	fila.Region = reg.String
	fila.CodComuna = int(codComuna.Int64)
	fila.Latitud = lat.Float64
	fila.Longitud = lon.Float64

	return &fila, nil
}

// FormatearPadron renders a person-address row into the canonical display
// form used for the resolution's formatted address.
func FormatearPadron(fila *FilaPadronPersona) string {
	return fmt.Sprintf("%s %s, %s, %s, %s",
		fila.NombreVia, fila.Numero, fila.Provincia, fila.Comuna, fila.Region)
}
