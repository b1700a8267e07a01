package caller

import (
	"context"
	"fmt"
	"maps"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/observe"
	"github.com/jonwraymond/chaincall/resilience"
)

// MethodFunc is the callable bound to one declared operation. It accepts the
// operation's positional arguments optionally followed by CallOpts.
type MethodFunc func(ctx context.Context, args ...any) ([]any, error)

// Caller memoizes and coalesces read-only calls to one contract.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Results: values returned by Call are shared by every caller of the same
//     key and must not be mutated.
//   - Errors: policy violations fail before any transport call; transport
//     errors are returned unchanged.
type Caller struct {
	target    common.Address
	ops       map[string]Operation
	transport Transport
	gate      *cache.Gate[[]any]
	keyer     *cache.DefaultKeyer
	guard     *resilience.Guard

	middleware *observe.Middleware
	metrics    observe.Metrics
	logger     observe.Logger
}

// New creates a caller for target exposing ops.
func New(target common.Address, ops []Operation, transport Transport, opts ...Option) (*Caller, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}
	index, err := indexOperations(ops)
	if err != nil {
		return nil, err
	}

	s := settings{policy: cache.DefaultPolicy()}
	for _, opt := range opts {
		opt(&s)
	}

	gate := s.gate
	if gate == nil {
		gate, err = cache.NewGate[[]any](s.policy.EffectiveCapacity())
		if err != nil {
			return nil, err
		}
	}

	c := &Caller{
		target:    target,
		ops:       index,
		transport: transport,
		gate:      gate,
		keyer:     cache.NewDefaultKeyer(s.policy.CacheByBlockTag),
		logger:    observe.NopLogger(),
	}

	if len(s.guardOpts) > 0 {
		c.guard = resilience.NewGuard(s.guardOpts...)
	}

	if s.observer != nil {
		mw, err := observe.MiddlewareFromObserver(s.observer)
		if err != nil {
			return nil, fmt.Errorf("caller: failed to set up telemetry: %w", err)
		}
		c.middleware = mw
		c.metrics = mw.Metrics()
		c.logger = s.observer.Logger()
	}

	return c, nil
}

// Target returns the contract address this caller reads from.
func (c *Caller) Target() common.Address {
	return c.target
}

// CacheByBlockTag reports whether block tags partition this caller's keys.
func (c *Caller) CacheByBlockTag() bool {
	return c.keyer.CacheByBlockTag()
}

// Gate returns the gate backing this caller, for sharing or inspection.
func (c *Caller) Gate() *cache.Gate[[]any] {
	return c.gate
}

// Operations returns the declared operation names in sorted order.
func (c *Caller) Operations() []string {
	return slices.Sorted(maps.Keys(c.ops))
}

// Method returns the callable for the named operation.
func (c *Caller) Method(name string) (MethodFunc, error) {
	if _, ok := c.ops[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return func(ctx context.Context, args ...any) ([]any, error) {
		return c.Call(ctx, name, args...)
	}, nil
}

// Call invokes the named operation with args, optionally followed by
// CallOpts. Identical concurrent calls share one transport call.
func (c *Caller) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	op, ok := c.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	positional, opts := splitOptions(op, args)
	if len(positional) != op.Arity {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, op.Name, op.Arity, len(positional))
	}

	key, err := c.keyer.Key(cache.Request{
		Target:    c.target,
		Operation: op.Name,
		Args:      positional,
		BlockTag:  opts.BlockTag,
	})
	if err != nil {
		return nil, fmt.Errorf("caller: %s: %w", op.Name, err)
	}

	meta := observe.CallMeta{
		Target:    c.target.Hex(),
		Operation: op.Name,
		BlockTag:  opts.BlockTag.String(),
	}

	sent, tag := detach(positional), opts.BlockTag
	if tag != nil {
		pinned := *tag
		tag = &pinned
	}
	future, outcome := c.gate.GetOrDispatch(key, func() ([]any, error) {
		return c.dispatch(ctx, meta, op, sent, tag)
	})
	if c.metrics != nil {
		c.metrics.RecordLookup(ctx, meta, outcome.String())
	}

	return future.Wait(ctx)
}

// detach copies args and any *big.Int in them. The dispatch outlives a
// waiter that gives up, and must send the values the key was built from.
func detach(args []any) []any {
	out := slices.Clone(args)
	for i, a := range out {
		if n, ok := a.(*big.Int); ok && n != nil {
			out[i] = new(big.Int).Set(n)
		}
	}
	return out
}

// dispatch runs on the gate's goroutine. It keeps ctx values for tracing but
// drops its cancellation: other callers may be waiting on this result after
// the first caller has gone away.
func (c *Caller) dispatch(ctx context.Context, meta observe.CallMeta, op Operation, args []any, tag *cache.BlockTag) ([]any, error) {
	ctx = context.WithoutCancel(ctx)

	invoke := func(ctx context.Context, _ observe.CallMeta) ([]any, error) {
		return c.transport.Invoke(ctx, c.target, op, args, tag)
	}
	if c.middleware != nil {
		invoke = c.middleware.Wrap(invoke)
	}

	if c.guard == nil {
		return invoke(ctx, meta)
	}

	var result []any
	err := c.guard.Execute(ctx, func(ctx context.Context) error {
		out, err := invoke(ctx, meta)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		// result may still be written by an abandoned attempt; never read it.
		return nil, err
	}
	return result, nil
}

// Clear drops every cached and in-flight entry of the backing gate, so the
// next call for any key goes to the node. Safe to call at any time.
func (c *Caller) Clear() {
	c.gate.Clear()
	c.logger.Debug(context.Background(), "call cache cleared",
		observe.Field{Key: "target", Value: c.target.Hex()},
	)
}

// Stats returns the backing gate's statistics.
func (c *Caller) Stats() cache.Stats {
	return c.gate.Stats()
}
