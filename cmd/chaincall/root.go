package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/chaincall/cache"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chaincall",
		Short:         "Coalescing, memoizing reads of ERC-20 contract state",
		Long:          `chaincall reads token metadata and balances from an EVM node. Identical concurrent reads share one node call and pinned-block results are cached.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./chaincall.yaml)")

	cmd.AddCommand(
		newTokenCmd(opts),
		newBalanceCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseAddresses(args []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(args))
	for _, a := range args {
		addr, err := parseAddress(a)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// parseBlock accepts "", "latest", a decimal height or 0x-hex. Empty means
// latest. Pending is rejected because state reads are keyed by block and a
// pending read can never be cached.
func parseBlock(s string) (*cache.BlockTag, error) {
	tag, err := cache.ParseBlockTag(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --block: %w", err)
	}
	if tag.Kind == cache.TagPending {
		return nil, fmt.Errorf("invalid --block: %q is not a fixed block", s)
	}
	return tag, nil
}
