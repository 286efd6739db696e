// Copyright 2026 The MapeoCL Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geochile/mapeo/mapeo"
)

var consultaFlags mapeo.Consulta

var resolverCmd = &cobra.Command{
	Use:   "resolver <calle>",
	Short: "Resuelve una dirección e imprime el resultado como JSON",
	Long: `Resuelve una única dirección contra la cascada completa y escribe la
resolución (coordenadas, origen y traza) en stdout.

$ mapeo resolver "Moneda" --numero 1200 --comuna Santiago --region Metropolitana
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cascada, _, cerrar, err := construirCascada(cmd.Context())
		if err != nil {
			return err
		}
		defer cerrar()

		consulta := consultaFlags
		consulta.NombreVia = args[0]

		resolucion, err := cascada.Resolver(cmd.Context(), consulta)
		if err != nil {
			return err
		}

		s, err := json.MarshalIndent(resolucion, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(s))

		return nil
	},
}

func init() {
	resolverCmd.Flags().StringVar(&consultaFlags.Numero, "numero", "", "número de la dirección")
	resolverCmd.Flags().StringVar(&consultaFlags.Comuna, "comuna", "", "comuna")
	resolverCmd.Flags().StringVar(&consultaFlags.Region, "region", "", "región")
	resolverCmd.Flags().StringVar(&consultaFlags.Provincia, "provincia", "", "provincia")

	rootCmd.AddCommand(resolverCmd)
}
