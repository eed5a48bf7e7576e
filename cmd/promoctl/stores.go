package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"promo-gateway/core/promo/domain"

	"github.com/spf13/cobra"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "List the known store formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printStores(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(storesCmd)
}

func printStores(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STORE\tPREFIX\tIDENTIFIER\tPRICE\tSUFFIX")
	for _, p := range domain.Profiles() {
		widths := make([]string, len(p.IdentifierLengths))
		for i, n := range p.IdentifierLengths {
			widths[i] = fmt.Sprint(n)
		}
		price := "-"
		if p.RequiresPrice() {
			price = p.PriceFill + strings.Repeat("9", p.PriceLength)
		}
		suffix := p.Suffix
		if suffix == "" {
			suffix = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Prefix, strings.Join(widths, "|"), price, suffix)
	}
	return tw.Flush()
}
