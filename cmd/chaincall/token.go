package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/chaincall/erc20"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Show a token's name, symbol and decimals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

			tok, err := a.token(addr)
			if err != nil {
				return err
			}
			meta, err := tok.Metadata(ctx)
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}
			return printMetadata(cmd.OutOrStdout(), addr.Hex(), meta, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func printMetadata(w io.Writer, address string, meta erc20.Metadata, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Address  string `json:"address"`
			Name     string `json:"name"`
			Symbol   string `json:"symbol"`
			Decimals uint8  `json:"decimals"`
		}{address, meta.Name, meta.Symbol, meta.Decimals})
	}
	_, err := fmt.Fprintf(w, "%s\n  name:     %s\n  symbol:   %s\n  decimals: %d\n",
		address, meta.Name, meta.Symbol, meta.Decimals)
	return err
}
