// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

// Package carga descarga los datasets nacionales de referencia (maestro de
// calles INE, direcciones APT y localidades APT) y los carga en DuckDB.
package carga

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Dataset describe una fuente CSV de referencia y la tabla DuckDB destino.
type Dataset struct {
	Nombre      string
	Descripcion string
	URL         string
	Archivo     string
	Tabla       string
}

var datasets = []Dataset{
	{
		Nombre:      "maestro-calles",
		Descripcion: "Maestro de calles INE 2024",
		URL:         "https://geoine.ine.cl/datos/MAESTROCALLES_CHILE_INE2024.csv",
		Archivo:     "MAESTROCALLES_CHILE_INE2024.csv",
		Tabla:       "maestro_calles",
	},
	{
		Nombre:      "apt-direcciones",
		Descripcion: "Direcciones APT Chile",
		URL:         "https://geoine.ine.cl/datos/APT_DIRECCIONES_CHILE.csv",
		Archivo:     "APT_DIRECCIONES_CHILE.csv",
		Tabla:       "apt_chile",
	},
	{
		Nombre:      "apt-localidades",
		Descripcion: "Localidades rurales APT Chile",
		URL:         "https://geoine.ine.cl/datos/APT_LOCALIDADES_CHILE.csv",
		Archivo:     "APT_LOCALIDADES_CHILE.csv",
		Tabla:       "localidades",
	},
}

// Datasets devuelve el registro de datasets conocidos.
func Datasets() []Dataset {
	return datasets
}

// Buscar devuelve el dataset con el nombre dado, o nil si no existe.
func Buscar(nombre string) *Dataset {
	for i := range datasets {
		if datasets[i].Nombre == nombre {
			return &datasets[i]
		}
	}

	return nil
}

// Cargador descarga archivos CSV a un directorio local y los ingesta en
// DuckDB mediante read_csv_auto.
type Cargador struct {
	db     *sql.DB
	client *http.Client
	dir    string
}

func NewCargador(db *sql.DB, client *http.Client, dir string) *Cargador {
	if client == nil {
		client = http.DefaultClient
	}

	return &Cargador{db: db, client: client, dir: dir}
}

// Ruta devuelve la ruta local del CSV de un dataset.
func (c *Cargador) Ruta(d Dataset) string {
	return filepath.Join(c.dir, d.Archivo)
}

// Descargar baja el CSV del dataset al directorio local. Si stderr es una
// terminal muestra una barra de progreso.
func (c *Cargador) Descargar(ctx context.Context, d Dataset) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", d.Nombre, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", d.Nombre, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %d", d.Nombre, resp.StatusCode)
	}

	f, err := os.Create(c.Ruta(d))
	if err != nil {
		return fmt.Errorf("creating %s: %w", c.Ruta(d), err)
	}

	var w io.Writer = f

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(int(resp.ContentLength),
			progressbar.OptionSetDescription("Descargando "+d.Nombre),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(f, bar)
	} else {
		log.Printf("Descargando %s desde %s", d.Nombre, d.URL)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", c.Ruta(d), err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", c.Ruta(d), err)
	}

	return nil
}

// Cargar ingesta el CSV ya descargado en la tabla DuckDB del dataset y
// devuelve la cantidad de filas cargadas. La tabla previa se reemplaza.
func (c *Cargador) Cargar(ctx context.Context, d Dataset) (int64, error) {
	ruta := c.Ruta(d)
	if _, err := os.Stat(ruta); err != nil {
		return 0, fmt.Errorf("dataset %s not downloaded: %w", d.Nombre, err)
	}

	// read_csv_auto no admite parámetros preparados; la ruta se escapa a
	// mano y el nombre de tabla proviene del registro estático.
	stmt := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s')",
		d.Tabla,
		strings.ReplaceAll(ruta, "'", "''"),
	)

	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return 0, fmt.Errorf("loading %s into %s: %w", d.Nombre, d.Tabla, err)
	}

	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT count(*) FROM "+d.Tabla).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", d.Tabla, err)
	}

	log.Printf("Dataset %s - %d filas cargadas en %s", d.Nombre, n, d.Tabla)

	return n, nil
}

// DescargarYCargar ejecuta ambas fases para un dataset.
func (c *Cargador) DescargarYCargar(ctx context.Context, d Dataset) (int64, error) {
	if err := c.Descargar(ctx, d); err != nil {
		return 0, err
	}

	return c.Cargar(ctx, d)
}
