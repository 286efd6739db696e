// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geochile/mapeo/carga"
)

var cargarCmd = &cobra.Command{
	Use:   "cargar <dataset|all>",
	Short: "Descarga y carga los datasets de referencia",
	Args:  datasetArg,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := abrirDuckDB()
		if err != nil {
			return err
		}
		defer db.Close()

		cargador := carga.NewCargador(db, clienteHTTP(), viper.GetString("datasets.dir"))

		if args[0] == "all" {
			for _, d := range carga.Datasets() {
				if _, err := cargador.DescargarYCargar(cmd.Context(), d); err != nil {
					return err
				}
			}

			return nil
		}

		d := carga.Buscar(args[0])

		_, err = cargador.DescargarYCargar(cmd.Context(), *d)

		return err
	},
}

func datasetArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}

	if args[0] == "all" {
		return nil
	}

	if carga.Buscar(args[0]) == nil {
		return fmt.Errorf("dataset desconocido: %q", args[0])
	}

	return nil
}

var cargarListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los datasets disponibles",
	Run: func(_ *cobra.Command, _ []string) {
		a, b, c := strings.Repeat("─", 16), strings.Repeat("─", 16), strings.Repeat("─", 34)
		fmt.Println("Datasets disponibles:")
		fmt.Printf("╭─%-16s─┬─%-16s─┬─%-34s╮\n", a, b, c)
		fmt.Printf("│ %-16s │ %-16s │ %-34s│\n", "Nombre", "Tabla", "Descripción")
		fmt.Printf("├─%-16s─┼─%-16s─┼─%-34s┤\n", a, b, c)

		for _, d := range carga.Datasets() {
			fmt.Printf("│ %-16s │ %-16s │ %-34s│\n", d.Nombre, d.Tabla, d.Descripcion)
		}

		fmt.Printf("╰─%-16s─┴─%-16s─┴─%-34s╯\n", a, b, c)
	},
}

func init() {
	rootCmd.AddCommand(cargarCmd)
	cargarCmd.AddCommand(cargarListCmd)
}
