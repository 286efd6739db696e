// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	cobra.OnInitialize(cargarConfiguracion)
}

// cargarConfiguracion lee mapeo.yaml (si existe) y variables de entorno con
// prefijo MAPEO_. Las claves anidadas usan guion bajo: MAPEO_DB_DUCKDB.
func cargarConfiguracion() {
	viper.SetConfigName("mapeo")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/mapeo")

	viper.SetDefault("db.duckdb", "mapeo.duckdb")
	viper.SetDefault("db.postgres", "")
	viper.SetDefault("datasets.dir", "csv_data")
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("geocoder.nominatim_url", "")
	viper.SetDefault("geocoder.google_key", "")
	viper.SetDefault("geocoder.google_project", "")
	viper.SetDefault("geocoder.timeout", 5*time.Second)
	viper.SetDefault("http.trace", false)

	viper.SetEnvPrefix("mapeo")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("No se pudo leer el archivo de configuración: %v", err)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapeo",
	Short: "resolución de direcciones chilenas a coordenadas",
	Long: `
mapeo resuelve direcciones de calle chilenas (vía, número, comuna, región) a
coordenadas geográficas, combinando el maestro de calles INE, el catastro de
direcciones APT, el padrón electoral y geocodificadores externos.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func userAgent() string {
	return fmt.Sprintf("mapeo/%s (+https://github.com/geochile/mapeo)", Version)
}
