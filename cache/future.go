package cache

import (
	"context"
	"time"
)

// Future is a pending-or-settled call result shared by every caller that
// coalesced onto the same key.
type Future[V any] struct {
	done    chan struct{}
	started time.Time
	value   V
	err     error
}

func newFuture[V any]() *Future[V] {
	return &Future[V]{
		done:    make(chan struct{}),
		started: time.Now(),
	}
}

// Resolved returns an already settled future.
func Resolved[V any](value V, err error) *Future[V] {
	f := newFuture[V]()
	f.settle(value, err)
	return f
}

func (f *Future[V]) settle(value V, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the result is available.
func (f *Future[V]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Started returns when the call behind this future was dispatched.
func (f *Future[V]) Started() time.Time {
	return f.started
}

// Wait blocks until the result is available or ctx is done. Giving up does
// not cancel the underlying call; other waiters still receive its result.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
