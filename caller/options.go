package caller

import (
	"time"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/observe"
	"github.com/jonwraymond/chaincall/resilience"
)

// CallOpts is the optional trailing argument of a call.
type CallOpts struct {
	// BlockTag pins the read. Nil means latest.
	BlockTag *cache.BlockTag
}

// AtBlock returns options pinning a call to height n.
func AtBlock(n uint64) CallOpts {
	return CallOpts{BlockTag: cache.AtBlock(n)}
}

// splitOptions separates a trailing CallOpts from positional arguments. The
// last value is only treated as options when exactly arity+1 values were
// supplied and it is options-shaped.
func splitOptions(op Operation, args []any) ([]any, CallOpts) {
	if len(args) != op.Arity+1 {
		return args, CallOpts{}
	}

	last := len(args) - 1
	switch o := args[last].(type) {
	case CallOpts:
		return args[:last], o
	case *CallOpts:
		if o == nil {
			return args[:last], CallOpts{}
		}
		return args[:last], *o
	}
	return args, CallOpts{}
}

type settings struct {
	policy    cache.Policy
	gate      *cache.Gate[[]any]
	observer  observe.Observer
	guardOpts []resilience.GuardOption
}

// Option configures a Caller.
type Option func(*settings)

// WithPolicy sets capacity and block-tag keying together.
func WithPolicy(p cache.Policy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithCapacity sets the capacity of the caller's own gate. Ignored when
// WithGate supplies a shared one.
func WithCapacity(n int) Option {
	return func(s *settings) {
		s.policy.Capacity = n
	}
}

// WithCacheByBlockTag sets whether block tags partition cache keys.
func WithCacheByBlockTag(enabled bool) Option {
	return func(s *settings) {
		s.policy.CacheByBlockTag = enabled
	}
}

// WithGate shares g between callers. Callers sharing a gate coalesce with
// each other; the gate's own capacity applies.
func WithGate(g *cache.Gate[[]any]) Option {
	return func(s *settings) {
		s.gate = g
	}
}

// WithObserver instruments dispatched calls and cache lookups.
func WithObserver(obs observe.Observer) Option {
	return func(s *settings) {
		s.observer = obs
	}
}

// WithGuard wraps every dispatched call in the given resilience guards.
func WithGuard(opts ...resilience.GuardOption) Option {
	return func(s *settings) {
		s.guardOpts = append(s.guardOpts, opts...)
	}
}

// WithDispatchTimeout bounds each dispatched call. A call that times out
// releases its waiters with resilience.ErrTimeout and leaves the cache, so
// a stuck node cannot block a key forever.
func WithDispatchTimeout(d time.Duration) Option {
	return WithGuard(resilience.WithTimeout(d))
}
