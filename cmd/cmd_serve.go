// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	_ "github.com/lib/pq"              // register postgres driver
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geochile/mapeo/api"
	"github.com/geochile/mapeo/mapeo"
	"github.com/geochile/mapeo/utils/httputils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Ejecuta la API HTTP de resolución de direcciones",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cascada, bitacora, cerrar, err := construirCascada(cmd.Context())
		if err != nil {
			return err
		}
		defer cerrar()

		addr := viper.GetString("http.addr")
		log.Printf("Escuchando en %s", addr)

		return api.NewServer(cascada, bitacora, addr).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func abrirDuckDB() (*sql.DB, error) {
	ruta := viper.GetString("db.duckdb")

	db, err := sql.Open("duckdb", ruta)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb %s: %w", ruta, err)
	}

	return db, nil
}

// clienteHTTP arma el cliente compartido por los geocodificadores externos.
func clienteHTTP() *http.Client {
	var trace io.Writer
	if viper.GetBool("http.trace") {
		trace = os.Stderr
	}

	return httputils.NewClient(userAgent(), viper.GetDuration("geocoder.timeout"), trace, false)
}

// claveGoogle resuelve la clave de Google Maps: configuración, variable de
// entorno GOOGLE_MAPS_API_KEY, y por último Application Default Credentials.
func claveGoogle(ctx context.Context) string {
	if clave := viper.GetString("geocoder.google_key"); clave != "" {
		return clave
	}

	if clave := os.Getenv("GOOGLE_MAPS_API_KEY"); clave != "" {
		return clave
	}

	clave, err := mapeo.APIKeyFromADC(ctx, viper.GetString("geocoder.google_project"))
	if err != nil {
		log.Printf("Sin clave de Google Maps, el proveedor queda deshabilitado: %v", err)

		return ""
	}

	return clave
}

// construirCascada arma la cascada completa a partir de la configuración.
// Las fuentes sin configuración (padrón sin Postgres, Google sin clave) se
// omiten y la cascada sigue con las restantes.
func construirCascada(ctx context.Context) (*mapeo.Cascada, *mapeo.Bitacora, func(), error) {
	db, err := abrirDuckDB()
	if err != nil {
		return nil, nil, nil, err
	}

	cerrables := []io.Closer{db}
	cerrar := func() {
		for _, c := range cerrables {
			if err := c.Close(); err != nil {
				log.Printf("Cerrando recurso: %v", err)
			}
		}
	}

	bitacora := mapeo.NuevaBitacora(db)
	if err := bitacora.CreateSchema(); err != nil {
		cerrar()

		return nil, nil, nil, fmt.Errorf("creating audit schema: %w", err)
	}

	// Empty reference tables resolve everything to the not-found fallback;
	// `mapeo cargar` replaces them with the real datasets.
	if err := mapeo.CreateCallejeroSchema(db); err != nil {
		cerrar()

		return nil, nil, nil, fmt.Errorf("creating gazetteer schema: %w", err)
	}

	if err := mapeo.CreateCatastroSchema(db); err != nil {
		cerrar()

		return nil, nil, nil, fmt.Errorf("creating cadastral schema: %w", err)
	}

	var padron mapeo.PadronRepository

	var frontera mapeo.FronteraProvider

	if dsn := viper.GetString("db.postgres"); dsn != "" {
		pg, err := sql.Open("postgres", dsn)
		if err != nil {
			cerrar()

			return nil, nil, nil, fmt.Errorf("opening postgres: %w", err)
		}

		cerrables = append(cerrables, pg)
		padron = mapeo.NewPadronRepository(pg)
		frontera = mapeo.NewFronteraProvider(pg)
	} else {
		log.Println("Sin Postgres configurado: padrón electoral y frontera deshabilitados")
	}

	cliente := clienteHTTP()

	var nominatim mapeo.Geocodificador
	if url := viper.GetString("geocoder.nominatim_url"); url != "" {
		nominatim = mapeo.NewNominatimGeocoderWithClient(url, cliente)
	} else {
		nominatim = mapeo.NewNominatimGeocoder(userAgent(), viper.GetDuration("geocoder.timeout"))
	}

	var google mapeo.Geocodificador
	if clave := claveGoogle(ctx); clave != "" {
		google = mapeo.NewGoogleMapsGeocoder(clave, userAgent(), viper.GetDuration("geocoder.timeout"))
	}

	opciones := []mapeo.OpcionCascada{
		mapeo.ConBitacora(bitacora),
		mapeo.ConTimeout(viper.GetDuration("geocoder.timeout")),
	}
	if frontera != nil {
		opciones = append(opciones, mapeo.ConFrontera(frontera))
	}

	cascada, err := mapeo.NuevaCascada(
		mapeo.NewCallejeroRepository(db),
		mapeo.NewCatastroRepository(db),
		padron,
		nominatim,
		google,
		opciones...,
	)
	if err != nil {
		cerrar()

		return nil, nil, nil, err
	}

	return cascada, bitacora, cerrar, nil
}
