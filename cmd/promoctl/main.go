// Package main implementa o promoctl: gera códigos de barras de loja e roda a
// tabela de comandos de chat no terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "promoctl",
	Short:         "Store barcode and promo category tool",
	Long:          "promoctl encodes store identifiers into Code 128 barcodes and runs the promo command table (categories, cooldowns, guides) from a terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// .env é opcional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
