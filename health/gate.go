package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/chaincall/cache"
)

// DefaultStallThreshold is how long a call may stay in flight before the gate
// is reported degraded.
const DefaultStallThreshold = 30 * time.Second

// StatsSource exposes gate statistics. *cache.Gate and *caller.Caller both
// satisfy it.
type StatsSource interface {
	Stats() cache.Stats
}

// GateCheckerConfig configures a GateChecker.
type GateCheckerConfig struct {
	// StallThreshold is the in-flight age that degrades the gate.
	// Default: DefaultStallThreshold
	StallThreshold time.Duration

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// GateChecker reports a gate degraded while its oldest in-flight call is
// older than the stall threshold. Every waiter coalesced onto that key is
// blocked behind it.
type GateChecker struct {
	src    StatsSource
	config GateCheckerConfig
}

// NewGateChecker creates a checker over src.
func NewGateChecker(src StatsSource, config GateCheckerConfig) *GateChecker {
	if config.StallThreshold <= 0 {
		config.StallThreshold = DefaultStallThreshold
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &GateChecker{src: src, config: config}
}

// Name returns the name of this checker.
func (g *GateChecker) Name() string {
	return "gate"
}

// Check performs the gate health check.
func (g *GateChecker) Check(ctx context.Context) Result {
	if r, done := canceled(ctx); done {
		return r
	}
	if g.src == nil {
		return Unhealthy("no gate configured", ErrNilSource)
	}

	st := g.src.Stats()
	details := map[string]any{
		"size":       st.Size,
		"capacity":   st.Capacity,
		"in_flight":  st.InFlight,
		"hits":       st.Hits,
		"coalesced":  st.Coalesced,
		"dispatches": st.Dispatches,
		"failures":   st.Failures,
		"evictions":  st.Evictions,
	}

	if st.OldestInFlight.IsZero() {
		return Healthy("no calls in flight").WithDetails(details)
	}

	age := g.config.Now().Sub(st.OldestInFlight)
	details["oldest_in_flight"] = age.String()
	if age >= g.config.StallThreshold {
		return Degraded(fmt.Sprintf("call in flight for %s", age.Round(time.Millisecond))).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d calls in flight", st.InFlight)).WithDetails(details)
}
