package health

import (
	"context"

	"github.com/jonwraymond/chaincall/resilience"
)

// StateSource exposes a circuit breaker state.
type StateSource interface {
	State() resilience.State
}

// BreakerChecker maps a circuit breaker to a status: closed is healthy,
// half-open is degraded and open is unhealthy.
type BreakerChecker struct {
	src StateSource
}

// NewBreakerChecker creates a checker over src.
func NewBreakerChecker(src StateSource) *BreakerChecker {
	return &BreakerChecker{src: src}
}

// Name returns the name of this checker.
func (b *BreakerChecker) Name() string {
	return "breaker"
}

// Check performs the breaker health check.
func (b *BreakerChecker) Check(ctx context.Context) Result {
	if r, done := canceled(ctx); done {
		return r
	}
	if b.src == nil {
		return Unhealthy("no breaker configured", ErrNilSource)
	}

	state := b.src.State()
	details := map[string]any{"state": state.String()}
	switch state {
	case resilience.StateClosed:
		return Healthy("circuit closed").WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open").WithDetails(details)
	default:
		return Unhealthy("circuit open", resilience.ErrCircuitOpen).WithDetails(details)
	}
}
