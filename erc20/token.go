package erc20

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/caller"
)

// ErrUnexpectedResult indicates a node answer that does not match the ERC-20
// return types.
var ErrUnexpectedResult = errors.New("erc20: unexpected result")

// Metadata holds a token's immutable descriptors.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Token reads one ERC-20 contract.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Ownership: returned *big.Int values are copies the caller may mutate.
type Token struct {
	address common.Address
	meta    *caller.Caller
	state   *caller.Caller
}

// NewToken creates a token reader at address. opts apply to both callers;
// block-tag keying is then fixed per caller (off for metadata, on for state).
func NewToken(address common.Address, transport caller.Transport, opts ...caller.Option) (*Token, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("erc20: parse abi: %w", err)
	}
	ops := caller.OperationsFromABI(parsed)

	metaOps, err := caller.Select(ops, OpName, OpSymbol, OpDecimals)
	if err != nil {
		return nil, err
	}
	stateOps, err := caller.Select(ops, OpTotalSupply, OpBalanceOf, OpAllowance)
	if err != nil {
		return nil, err
	}

	meta, err := caller.New(address, metaOps, transport, slices.Concat(opts, []caller.Option{caller.WithCacheByBlockTag(false)})...)
	if err != nil {
		return nil, err
	}
	state, err := caller.New(address, stateOps, transport, slices.Concat(opts, []caller.Option{caller.WithCacheByBlockTag(true)})...)
	if err != nil {
		return nil, err
	}

	return &Token{address: address, meta: meta, state: state}, nil
}

// Address returns the token contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// Name returns the token name.
func (t *Token) Name(ctx context.Context) (string, error) {
	return callOne[string](ctx, t.meta, OpName)
}

// Symbol returns the token symbol.
func (t *Token) Symbol(ctx context.Context) (string, error) {
	return callOne[string](ctx, t.meta, OpSymbol)
}

// Decimals returns the token's decimal places.
func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	return callOne[uint8](ctx, t.meta, OpDecimals)
}

// Metadata reads name, symbol and decimals concurrently.
func (t *Token) Metadata(ctx context.Context) (Metadata, error) {
	var md Metadata
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		md.Name, err = t.Name(ctx)
		return err
	})
	g.Go(func() (err error) {
		md.Symbol, err = t.Symbol(ctx)
		return err
	})
	g.Go(func() (err error) {
		md.Decimals, err = t.Decimals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Metadata{}, err
	}
	return md, nil
}

// TotalSupply returns the supply at opts' block.
func (t *Token) TotalSupply(ctx context.Context, opts caller.CallOpts) (*big.Int, error) {
	return callAmount(ctx, t.state, OpTotalSupply, opts)
}

// BalanceOf returns holder's balance at opts' block.
func (t *Token) BalanceOf(ctx context.Context, holder common.Address, opts caller.CallOpts) (*big.Int, error) {
	return callAmount(ctx, t.state, OpBalanceOf, opts, holder)
}

// Allowance returns what spender may move on owner's behalf at opts' block.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address, opts caller.CallOpts) (*big.Int, error) {
	return callAmount(ctx, t.state, OpAllowance, opts, owner, spender)
}

// Balances reads several holders at the same block concurrently. Duplicate
// holders share one node call.
func (t *Token) Balances(ctx context.Context, holders []common.Address, opts caller.CallOpts) (map[common.Address]*big.Int, error) {
	results := make([]*big.Int, len(holders))
	g, ctx := errgroup.WithContext(ctx)
	for i, holder := range holders {
		g.Go(func() error {
			bal, err := t.BalanceOf(ctx, holder, opts)
			if err != nil {
				return fmt.Errorf("erc20: balance of %s: %w", holder.Hex(), err)
			}
			results[i] = bal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[common.Address]*big.Int, len(holders))
	for i, holder := range holders {
		out[holder] = results[i]
	}
	return out, nil
}

// Clear drops every cached read of this token.
func (t *Token) Clear() {
	t.meta.Clear()
	t.state.Clear()
}

// Stats returns the metadata and state cache statistics.
func (t *Token) Stats() (meta, state cache.Stats) {
	return t.meta.Stats(), t.state.Stats()
}

func callOne[T any](ctx context.Context, c *caller.Caller, op string, args ...any) (T, error) {
	var zero T
	out, err := c.Call(ctx, op, args...)
	if err != nil {
		return zero, err
	}
	if len(out) != 1 {
		return zero, fmt.Errorf("%w: %s returned %d values", ErrUnexpectedResult, op, len(out))
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResult, op, out[0])
	}
	return v, nil
}

// callAmount copies the shared cached value so callers can mutate it.
func callAmount(ctx context.Context, c *caller.Caller, op string, opts caller.CallOpts, args ...any) (*big.Int, error) {
	v, err := callOne[*big.Int](ctx, c, op, append(args, opts)...)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrUnexpectedResult, op)
	}
	return new(big.Int).Set(v), nil
}
