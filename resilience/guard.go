package resilience

import (
	"context"
	"time"
)

// Guard composes the guards configured for node calls.
//
// Contract:
//   - Concurrency: safe for concurrent use; the wrapped guards are shared.
//   - Errors: guard errors (ErrRateLimited, ErrBulkheadFull, ErrCircuitOpen,
//     ErrTimeout) and
//     operation errors are returned unchanged, never retried.
type Guard struct {
	rateLimiter    *RateLimiter
	bulkhead       *Bulkhead
	circuitBreaker *CircuitBreaker
	timeout        *Timeout
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// NewGuard creates a guard. With no options Execute just runs the operation.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithRateLimiter paces calls to the node.
func WithRateLimiter(rl *RateLimiter) GuardOption {
	return func(g *Guard) {
		g.rateLimiter = rl
	}
}

// WithBulkhead bounds concurrent calls.
func WithBulkhead(b *Bulkhead) GuardOption {
	return func(g *Guard) {
		g.bulkhead = b
	}
}

// WithCircuitBreaker rejects calls while the node is failing.
func WithCircuitBreaker(cb *CircuitBreaker) GuardOption {
	return func(g *Guard) {
		g.circuitBreaker = cb
	}
}

// WithTimeout bounds each call. Non-positive durations are ignored.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = NewTimeout(TimeoutConfig{Timeout: d})
		}
	}
}

// RateLimiter returns the configured rate limiter, or nil.
func (g *Guard) RateLimiter() *RateLimiter {
	return g.rateLimiter
}

// Bulkhead returns the configured bulkhead, or nil.
func (g *Guard) Bulkhead() *Bulkhead {
	return g.bulkhead
}

// CircuitBreaker returns the configured circuit breaker, or nil.
func (g *Guard) CircuitBreaker() *CircuitBreaker {
	return g.circuitBreaker
}

// Execute runs op through the configured guards.
//
// The order is, outermost first:
// 1. Rate Limiter - a call waiting for a token holds no bulkhead slot
// 2. Bulkhead - a queued call holds no breaker probe slot
// 3. Circuit Breaker - timeouts count as node failures
// 4. Timeout
func (g *Guard) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if g.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.timeout.Execute(ctx, inner)
		}
	}

	if g.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.circuitBreaker.Execute(ctx, inner)
		}
	}

	if g.bulkhead != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.bulkhead.Execute(ctx, inner)
		}
	}

	if g.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return g.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
