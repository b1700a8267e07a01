package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/chaincall/caller"
	"github.com/jonwraymond/chaincall/erc20"
)

func newBalanceCmd(root *rootOptions) *cobra.Command {
	var block string

	cmd := &cobra.Command{
		Use:   "balance <token> <holder>...",
		Short: "Show holder balances at one block",
		Long: `Reads balanceOf for every holder concurrently at a single block.
Without --block the current head is used so results are cacheable.
Duplicate holders share one node call.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenAddr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			holders, err := parseAddresses(args[1:])
			if err != nil {
				return err
			}
			tag, err := parseBlock(block)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

			if tag, err = a.pin(ctx, tag); err != nil {
				return err
			}

			tok, err := a.token(tokenAddr)
			if err != nil {
				return err
			}
			meta, err := tok.Metadata(ctx)
			if err != nil {
				return fmt.Errorf("read metadata: %w", err)
			}
			balances, err := tok.Balances(ctx, holders, caller.CallOpts{BlockTag: tag})
			if err != nil {
				return fmt.Errorf("read balances: %w", err)
			}

			_, stats := tok.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s at block %s\n", meta.Symbol, tag)
			printBalances(cmd.OutOrStdout(), holders, balances, meta)
			fmt.Fprintf(cmd.ErrOrStderr(), "node calls: %d, coalesced: %d, cache hits: %d\n",
				stats.Dispatches, stats.Coalesced, stats.Hits)
			return nil
		},
	}
	cmd.Flags().StringVar(&block, "block", "", "block height, 0x-hex height or latest (default: current head)")
	return cmd
}

// printBalances writes one line per holder in argument order, skipping
// repeats.
func printBalances(w io.Writer, holders []common.Address, balances map[common.Address]*big.Int, meta erc20.Metadata) {
	seen := make(map[common.Address]bool, len(holders))
	for _, h := range holders {
		if seen[h] {
			continue
		}
		seen[h] = true
		fmt.Fprintf(w, "  %s  %s\n", h.Hex(), formatUnits(balances[h], meta.Decimals))
	}
}

// formatUnits renders amount scaled down by decimals, trimming trailing
// zeros from the fraction.
func formatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "?"
	}
	neg := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()

	d := int(decimals)
	if d > 0 {
		if len(digits) <= d {
			digits = strings.Repeat("0", d-len(digits)+1) + digits
		}
		whole, frac := digits[:len(digits)-d], strings.TrimRight(digits[len(digits)-d:], "0")
		digits = whole
		if frac != "" {
			digits += "." + frac
		}
	}
	if neg {
		return "-" + digits
	}
	return digits
}
