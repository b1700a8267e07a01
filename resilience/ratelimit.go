package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of calls per second.
	// Default: 10
	Rate float64

	// Burst is the bucket size.
	// Default: 1
	Burst int

	// MaxWait bounds the wait for a token. Zero waits until ctx is done.
	MaxWait time.Duration
}

// RateLimiter paces node calls with a token bucket.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Blocking: Wait and Execute block until a token is taken. They give up
//     with ErrRateLimited after MaxWait, or with ctx.Err().
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	tokens  float64
	last    time.Time
	limited int64
}

// NewRateLimiter creates a rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &RateLimiter{
		config: config,
		tokens: float64(config.Burst),
		last:   time.Now(),
	}
}

// take removes a token if one is available. Otherwise it returns how long
// until one will be.
func (rl *RateLimiter) take() (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens = min(float64(rl.config.Burst), rl.tokens+now.Sub(rl.last).Seconds()*rl.config.Rate)
	rl.last = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true, 0
	}
	return false, time.Duration((1 - rl.tokens) / rl.config.Rate * float64(time.Second))
}

// Wait blocks until a token is taken.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	var expired <-chan time.Time
	if rl.config.MaxWait > 0 {
		deadline := time.NewTimer(rl.config.MaxWait)
		defer deadline.Stop()
		expired = deadline.C
	}

	for {
		ok, wait := rl.take()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-expired:
			timer.Stop()
			rl.mu.Lock()
			rl.limited++
			rl.mu.Unlock()
			return ErrRateLimited
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Execute runs op once a token is taken.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return op(ctx)
}

// Limited returns how many calls gave up waiting for a token.
func (rl *RateLimiter) Limited() int64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.limited
}
