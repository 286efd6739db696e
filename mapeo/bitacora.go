// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uber/h3-go/v4"

	"github.com/geochile/mapeo/spatial"
)

// RegistroBitacora is one persisted resolution: what was asked, what was
// answered, and where. The H3 columns index the answer point at resolutions
// 1 through 8 so coverage and quality reports can aggregate by cell.
type RegistroBitacora struct {
	ID        int            `json:"id"`
	Origen    string         `json:"origen"`
	Direccion string         `json:"direccion"`
	Consulta  string         `json:"consulta"`
	Comuna    string         `json:"comuna"`
	Region    string         `json:"region"`
	Punto     *spatial.Point `json:"punto"`
	Confianza int            `json:"confianza"`
	Rural     bool           `json:"rural"`
	Frontera  string         `json:"frontera,omitempty"`
	CreadaEn  time.Time      `json:"created_at"`
	H3Res1    int64          `json:"-"`
	H3Res2    int64          `json:"-"`
	H3Res3    int64          `json:"-"`
	H3Res4    int64          `json:"-"`
	H3Res5    int64          `json:"-"`
	H3Res6    int64          `json:"-"`
	H3Res7    int64          `json:"-"`
	H3Res8    int64          `json:"-"`
}

func (reg *RegistroBitacora) computeH3() error {
	if reg.Punto == nil {
		reg.H3Res1, reg.H3Res2, reg.H3Res3, reg.H3Res4 = 0, 0, 0, 0
		reg.H3Res5, reg.H3Res6, reg.H3Res7, reg.H3Res8 = 0, 0, 0, 0

		return nil
	}

	latLng := h3.NewLatLng(reg.Punto.Lat, reg.Punto.Lng)

	for res := 1; res <= 8; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		switch res {
		case 1:
			reg.H3Res1 = int64(cell)
		case 2:
			reg.H3Res2 = int64(cell)
		case 3:
			reg.H3Res3 = int64(cell)
		case 4:
			reg.H3Res4 = int64(cell)
		case 5:
			reg.H3Res5 = int64(cell)
		case 6:
			reg.H3Res6 = int64(cell)
		case 7:
			reg.H3Res7 = int64(cell)
		case 8:
			reg.H3Res8 = int64(cell)
		}
	}

	return nil
}

// Bitacora persists completed resolutions to DuckDB.
type Bitacora struct {
	db *sql.DB
}

// NuevaBitacora builds the audit log over a DuckDB handle.
func NuevaBitacora(db *sql.DB) *Bitacora {
	return &Bitacora{db: db}
}

// CreateSchema creates the resoluciones table.
func (b *Bitacora) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := b.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = b.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS resoluciones_seq START 1;

		CREATE TABLE IF NOT EXISTS resoluciones (
			id INTEGER PRIMARY KEY DEFAULT nextval('resoluciones_seq'),
			origen VARCHAR NOT NULL,
			direccion VARCHAR NOT NULL,
			consulta VARCHAR NOT NULL,
			comuna VARCHAR,
			region VARCHAR,
			point POINT_2D,
			confianza INTEGER NOT NULL,
			rural BOOLEAN DEFAULT FALSE,
			frontera VARCHAR,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)

	return err
}

// Registrar persists one resolution.
func (b *Bitacora) Registrar(ctx context.Context, resolucion *Resolucion, d *Direccion) error {
	reg := &RegistroBitacora{
		Origen:    resolucion.Coords.Origen,
		Direccion: resolucion.Coords.Direccion,
		Consulta:  direccionParaExternos(d),
		Comuna:    d.Comuna,
		Region:    d.Region,
		Confianza: d.Confianza,
		Rural:     d.Rural,
		CreadaEn:  time.Now(),
	}

	if p, ok := resolucion.Coords.Punto(); ok {
		reg.Punto = &p
	}

	if resolucion.Frontera != nil {
		reg.Frontera = resolucion.Frontera.Resultado
	}

	if err := reg.computeH3(); err != nil {
		return err
	}

	// ST_Point(NULL, NULL) yields a NULL point, so an absent answer needs
	// no separate statement.
	var lng, lat *float64
	if reg.Punto != nil {
		lng, lat = &reg.Punto.Lng, &reg.Punto.Lat
	}

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO resoluciones(
			origen, direccion, consulta, comuna, region, point,
			confianza, rural, frontera, created_at,
			h3_res1, h3_res2, h3_res3, h3_res4, h3_res5, h3_res6, h3_res7, h3_res8
		) VALUES (?, ?, ?, ?, ?, ST_Point(?, ?), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		reg.Origen, reg.Direccion, reg.Consulta, reg.Comuna, reg.Region, lng, lat,
		reg.Confianza, reg.Rural, reg.Frontera, reg.CreadaEn,
		reg.H3Res1, reg.H3Res2, reg.H3Res3, reg.H3Res4,
		reg.H3Res5, reg.H3Res6, reg.H3Res7, reg.H3Res8,
	)

	return err
}

// Listar returns past resolutions, newest first.
func (b *Bitacora) Listar(ctx context.Context, limit, offset int) ([]*RegistroBitacora, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, origen, direccion, consulta, comuna, region, point,
		       confianza, rural, frontera, created_at
		FROM resoluciones
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var registros []*RegistroBitacora

	for rows.Next() {
		reg := &RegistroBitacora{}

		var punto spatial.Point

		var comuna, region, frontera sql.NullString

		if err := rows.Scan(&reg.ID, &reg.Origen, &reg.Direccion, &reg.Consulta,
			&comuna, &region, &punto, &reg.Confianza, &reg.Rural, &frontera, &reg.CreadaEn); err != nil {
			return nil, err
		}

		reg.Comuna = comuna.String
		reg.Region = region.String
		reg.Frontera = frontera.String
		reg.Punto = &punto

		registros = append(registros, reg)
	}

	return registros, rows.Err()
}

// Contar returns the total number of recorded resolutions.
func (b *Bitacora) Contar(ctx context.Context) (int, error) {
	var n int

	err := b.db.QueryRowContext(ctx, `SELECT count(*) FROM resoluciones`).Scan(&n)

	return n, err
}
