package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/mostrador-api/pkg/afip"
)

var cuitCmd = &cobra.Command{
	Use:   "cuit",
	Short: "Validación de CUIT/CUIL",
}

var cuitValidateCmd = &cobra.Command{
	Use:     "validate <cuit>...",
	Short:   "Verifica el dígito verificador de una o más CUIT",
	Example: "  posctl cuit validate 20-12345678-6 30712345671",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid := 0
		for _, id := range args {
			if err := afip.ValidateCUIT(id); err != nil {
				invalid++
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tINVÁLIDA\t%v\n", id, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tOK\t%s\n", id, afip.FormatCUIT(id))
		}
		if invalid > 0 {
			return fmt.Errorf("%d de %d CUIT inválidas", invalid, len(args))
		}
		return nil
	},
}

var cuitDigitCmd = &cobra.Command{
	Use:     "digit <10 dígitos>",
	Short:   "Calcula el dígito verificador y muestra la CUIT completa",
	Example: "  posctl cuit digit 20-12345678",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		digits := afip.NormalizeCUIT(args[0])
		if len(digits) != 10 {
			return fmt.Errorf("se esperan 10 dígitos, se recibieron %d", len(digits))
		}
		d, err := afip.CheckDigit(digits)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), afip.FormatCUIT(digits+string(d)))
		return nil
	},
}

func init() {
	cuitCmd.AddCommand(cuitValidateCmd, cuitDigitCmd)
	rootCmd.AddCommand(cuitCmd)
}
