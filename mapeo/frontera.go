// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package mapeo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Boundary verdicts of the commune containment check.
const (
	FronteraDentro = "Dentro"
	FronteraLimite = "Limite"
	FronteraFuera  = "Fuera"
)

// ResultadoFrontera says whether a resolved point falls inside the commune
// the query named. Purely informative: it never changes the resolution.
type ResultadoFrontera struct {
	Comuna    string `json:"comuna"`
	CodComuna string `json:"cod_comuna"`
	Resultado string `json:"resultado"`
}

// FronteraProvider checks a point against the official commune polygons.
type FronteraProvider interface {
	Comprobar(ctx context.Context, cutCom string, lat, lon float64) (*ResultadoFrontera, error)
}

type sqlFronteraProvider struct {
	db *sql.DB
}

// NewFronteraProvider builds a containment checker over the electoral
// Postgres database, which carries the commune polygons in owd.comunas
// (PostGIS).
func NewFronteraProvider(db *sql.DB) FronteraProvider {
	return &sqlFronteraProvider{db: db}
}

// Comprobar resolves containment server side: ST_Contains wins over
// ST_Touches, anything else is outside. An unknown commune code is an error,
// not a verdict.
func (p *sqlFronteraProvider) Comprobar(ctx context.Context, cutCom string, lat, lon float64) (*ResultadoFrontera, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT comuna,
			ST_Contains(geom, ST_SetSRID(ST_MakePoint($2, $3), 4326)),
			ST_Touches(geom, ST_SetSRID(ST_MakePoint($2, $3), 4326))
		FROM owd.comunas
		WHERE cut_com = $1
	`, cutCom, lon, lat)

	var comuna string

	var contiene, toca bool

	err := row.Scan(&comuna, &contiene, &toca)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no se encontró la comuna con cut_com: %s", cutCom)
	}

	if err != nil {
		return nil, err
	}

	resultado := FronteraFuera

	switch {
	case contiene:
		resultado = FronteraDentro
	case toca:
		resultado = FronteraLimite
	}

	return &ResultadoFrontera{
		Comuna:    comuna,
		CodComuna: cutCom,
		Resultado: resultado,
	}, nil
}
