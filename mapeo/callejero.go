// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Scoring thresholds of the gazetteer composite score. Each component only
// contributes when it clears its own gate, so a single coincidental field
// match scores zero. These are business rules, not tuning knobs.
const (
	UmbralJerarquia = 70 // strict: contributes when similarity > 70
	UmbralComuna    = 70
	UmbralRegion    = 70
	UmbralCalle     = 50
)

// FilaCallejero is a row of the maestro de calles, the authoritative street
// gazetteer. Read-only reference data.
type FilaCallejero struct {
	Jerarquia string
	NombreVia string
	Comuna    string
	Provincia string
	Region    string
	Cut       string
	CutR      string
	CenLat    string
	CenLon    string
}

// CallejeroRepository returns gazetteer rows loosely overlapping a query.
// The pre-filter is a cheap recall device; the matcher does the scoring.
type CallejeroRepository interface {
	Candidatas(ctx context.Context, comuna, region, nombreVia string) ([]FilaCallejero, error)
}

// CandidataCallejero is a scored gazetteer candidate, transient to one scan.
type CandidataCallejero struct {
	Fila               FilaCallejero
	SimilitudJerarquia int
	SimilitudComuna    int
	SimilitudRegion    int
	SimilitudCalle     int
	Puntaje            int
}

// MatcherCallejero scores gazetteer candidates against a normalized address
// and keeps the single best row.
type MatcherCallejero struct {
	repo CallejeroRepository
}

// NuevoMatcherCallejero builds a matcher over a gazetteer repository.
func NuevoMatcherCallejero(repo CallejeroRepository) *MatcherCallejero {
	return &MatcherCallejero{repo: repo}
}

// puntuar computes the gated composite score of one row against the query.
func puntuar(fila FilaCallejero, jerarquia, comuna, region, nombreVia string) CandidataCallejero {
	c := CandidataCallejero{Fila: fila}

	if fila.Jerarquia != "" {
		c.SimilitudJerarquia = Ratio(strings.ToUpper(fila.Jerarquia), jerarquia)
	}

	if fila.Comuna != "" {
		c.SimilitudComuna = Ratio(strings.ToUpper(fila.Comuna), comuna)
	}

	if fila.Region != "" {
		c.SimilitudRegion = Ratio(strings.ToUpper(fila.Region), region)
	}

	if fila.NombreVia != "" {
		c.SimilitudCalle = Ratio(strings.ToUpper(fila.NombreVia), nombreVia)
	}

	if c.SimilitudJerarquia > UmbralJerarquia {
		c.Puntaje += c.SimilitudJerarquia
	}

	if c.SimilitudComuna >= UmbralComuna {
		c.Puntaje += c.SimilitudComuna
	}

	if c.SimilitudRegion >= UmbralRegion {
		c.Puntaje += c.SimilitudRegion
	}

	if c.SimilitudCalle >= UmbralCalle {
		c.Puntaje += c.SimilitudCalle
	}

	return c
}

// Mejor scans the candidate rows for d and mutates the working record with
// the best match: corrected street name, territorial codes, centroid and the
// canonical formatted address. It returns false when no row scores above
// zero; that is a normal outcome, not an error. Ties keep the first row in
// storage order.
func (m *MatcherCallejero) Mejor(ctx context.Context, d *Direccion) (bool, error) {
	nombreVia := strings.ToUpper(strings.TrimSpace(d.NombreVia))
	comuna := strings.ToUpper(strings.TrimSpace(d.Comuna))
	region := strings.ToUpper(strings.TrimSpace(d.Region))
	jerarquia := strings.ToUpper(strings.TrimSpace(d.Jerarquia))

	filas, err := m.repo.Candidatas(ctx, comuna, region, nombreVia)
	if err != nil {
		return false, fmt.Errorf("scanning gazetteer: %w", err)
	}

	mejorPuntaje := 0

	var mejor *CandidataCallejero

	for _, fila := range filas {
		c := puntuar(fila, jerarquia, comuna, region, nombreVia)
		if c.Puntaje > mejorPuntaje {
			mejorPuntaje = c.Puntaje
			candidata := c
			mejor = &candidata
		}
	}

	if mejor == nil {
		return false, nil
	}

	fila := mejor.Fila
	d.NombreVia = fila.NombreVia
	d.Comuna = fila.Comuna
	d.Provincia = fila.Provincia
	d.Region = fila.Region
	d.Callejero = &DatosCallejeros{
		Jerarquia: fila.Jerarquia,
		Cut:       fila.Cut,
		CutR:      fila.CutR,
		CenLat:    fila.CenLat,
		CenLon:    fila.CenLon,
	}
	d.DireccionFormateada = fmt.Sprintf("%s %s %s, %s, %s, %s",
		fila.Jerarquia, fila.NombreVia, d.Numero, fila.Comuna, fila.Provincia, fila.Region)

	return true, nil
}

// sqlCallejeroRepository reads the maestro_calles table from DuckDB.
type sqlCallejeroRepository struct {
	db *sql.DB
}

// NewCallejeroRepository builds a gazetteer repository over a DuckDB handle.
func NewCallejeroRepository(db *sql.DB) CallejeroRepository {
	return &sqlCallejeroRepository{db: db}
}

// CreateCallejeroSchema creates the maestro_calles table. Ingestion normally
// creates it with read_csv_auto; tests and empty deployments use this.
func CreateCallejeroSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS maestro_calles (
			JERARQUIA VARCHAR,
			NOMBRE_VIA VARCHAR,
			COMUNA VARCHAR,
			PROVINCIA VARCHAR,
			REGION VARCHAR,
			CUT VARCHAR,
			CUT_R VARCHAR,
			CEN_LAT VARCHAR,
			CEN_LON VARCHAR
		);
	`)

	return err
}

func (r *sqlCallejeroRepository) Candidatas(ctx context.Context, comuna, region, nombreVia string) ([]FilaCallejero, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT JERARQUIA, NOMBRE_VIA, COMUNA, PROVINCIA, REGION, CUT, CUT_R, CEN_LAT, CEN_LON
		FROM maestro_calles
		WHERE
			upper(COMUNA) LIKE '%' || ? || '%'
			OR upper(REGION) LIKE '%' || ? || '%'
			OR NOMBRE_VIA ILIKE '%' || ? || '%'
	`, comuna, region, nombreVia)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filas []FilaCallejero

	for rows.Next() {
		var fila FilaCallejero

		var jerarquia, nombre, com, prov, reg, cut, cutR, lat, lon sql.NullString

		if err := rows.Scan(&jerarquia, &nombre, &com, &prov, &reg, &cut, &cutR, &lat, &lon); err != nil {
			return nil, err
		}

		fila.Jerarquia = jerarquia.String
		fila.NombreVia = nombre.String
		fila.Comuna = com.String
		fila.Provincia = prov.String
		fila.Region = reg.String
		fila.Cut = cut.String
		fila.CutR = cutR.String
		fila.CenLat = lat.String
		fila.CenLon = lon.String

		filas = append(filas, fila)
	}

	return filas, rows.Err()
}
