// posctl herramientas de operación de la API: migraciones, datos de demostración,
// importación de productos y validación de CUIT.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
