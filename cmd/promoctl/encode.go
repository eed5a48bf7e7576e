package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"promo-gateway/core/promo/application"
	"promo-gateway/core/promo/infra"

	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <store> <identifier> [price]",
	Short: "Encode a store identifier and render it as a Code 128 PNG",
	Long:  "Encodes the identifier (and price, for stores that take one) into the store payload. Prints the payload, and writes a PNG when --out is set.",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price := ""
		if len(args) == 3 {
			price = args[2]
		}
		return runEncode(cmd.Context(), cmd.OutOrStdout(), encodeParams{
			Store:      args[0],
			Identifier: args[1],
			Price:      price,
			Out:        encodeOut,
			Width:      encodeWidth,
			Height:     encodeHeight,
		})
	},
}

var (
	encodeOut    string
	encodeWidth  int
	encodeHeight int
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "Path to write the PNG (optional)")
	encodeCmd.Flags().IntVar(&encodeWidth, "width", 400, "Minimum image width in pixels")
	encodeCmd.Flags().IntVar(&encodeHeight, "height", 120, "Image height in pixels")

	rootCmd.AddCommand(encodeCmd)
}

type encodeParams struct {
	Store, Identifier, Price string

	Out           string
	Width, Height int
}

func runEncode(ctx context.Context, w io.Writer, p encodeParams) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.Out == "" {
		payload, err := application.Encode(p.Store, p.Identifier, p.Price)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, payload)
		return err
	}

	svc := application.RenderService{Renderer: infra.NewCode128Renderer(infra.WithSize(p.Width, p.Height))}
	payload, img, err := svc.EncodeAndRender(ctx, p.Store, p.Identifier, p.Price)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.Out, img, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.Out, err)
	}
	_, err = fmt.Fprintf(w, "%s -> %s\n", payload, p.Out)
	return err
}
