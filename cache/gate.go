package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Outcome describes how a Gate served a request.
type Outcome int

const (
	// OutcomeHit means a settled result was served from the cache.
	OutcomeHit Outcome = iota
	// OutcomeCoalesced means the caller joined a call already in flight.
	OutcomeCoalesced
	// OutcomeDispatched means the caller started a new call.
	OutcomeDispatched
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeCoalesced:
		return "coalesced"
	case OutcomeDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

// Gate coalesces concurrent calls per Key and memoizes their results in a
// bounded LRU.
//
// Contract:
//   - Concurrency: safe for concurrent use; at most one call per key is in
//     flight at any instant.
//   - Locking: the critical section covers lookup and insert only. Calls run
//     on their own goroutine, so calls for different keys never serialize.
//   - Errors: a failed call is dropped from the cache before its waiters are
//     released, so the next request dispatches again.
//   - Ownership: one Gate should back a given key space. Two gates over the
//     same keys silently defeat coalescing.
type Gate[V any] struct {
	mu       sync.Mutex
	entries  *LRU[*Future[V]]
	inflight map[Key]*Future[V]

	hits       atomic.Int64
	coalesced  atomic.Int64
	dispatches atomic.Int64
	failures   atomic.Int64
}

// NewGate creates a gate whose cache holds at most capacity results.
func NewGate[V any](capacity int) (*Gate[V], error) {
	entries, err := NewLRU[*Future[V]](capacity)
	if err != nil {
		return nil, err
	}
	return &Gate[V]{
		entries:  entries,
		inflight: make(map[Key]*Future[V]),
	}, nil
}

// GetOrDispatch returns the future cached or in flight for key. On a miss it
// publishes a pending future under key, then runs call outside the lock.
//
// A pending future pushed out of the LRU by capacity pressure keeps serving
// new callers from the in-flight table until it settles.
func (g *Gate[V]) GetOrDispatch(key Key, call func() (V, error)) (*Future[V], Outcome) {
	g.mu.Lock()

	if f, ok := g.inflight[key]; ok {
		// Re-put refreshes recency and restores an evicted pending entry.
		g.entries.Put(key, f)
		g.mu.Unlock()
		g.coalesced.Add(1)
		return f, OutcomeCoalesced
	}

	if f, ok := g.entries.Get(key); ok {
		g.mu.Unlock()
		g.hits.Add(1)
		return f, OutcomeHit
	}

	f := newFuture[V]()
	g.entries.Put(key, f)
	g.inflight[key] = f
	g.mu.Unlock()

	g.dispatches.Add(1)
	go g.run(key, f, call)

	return f, OutcomeDispatched
}

func (g *Gate[V]) run(key Key, f *Future[V], call func() (V, error)) {
	value, err := safeCall(call)

	g.mu.Lock()
	if g.inflight[key] == f {
		delete(g.inflight, key)
	}
	if err != nil {
		if cur, ok := g.entries.Peek(key); ok && cur == f {
			g.entries.Delete(key)
		}
	}
	g.mu.Unlock()

	if err != nil {
		g.failures.Add(1)
	}
	f.settle(value, err)
}

func safeCall[V any](call func() (V, error)) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			value, err = zero, fmt.Errorf("%w: %v", ErrCallPanicked, r)
		}
	}()
	return call()
}

// Forget drops key so the next request dispatches again. Waiters already
// holding its future are unaffected.
func (g *Gate[V]) Forget(key Key) {
	g.mu.Lock()
	delete(g.inflight, key)
	g.entries.Delete(key)
	g.mu.Unlock()
}

// Clear drops every cached and in-flight entry. Calls already running still
// settle for their existing waiters but are never served to new callers.
func (g *Gate[V]) Clear() {
	g.mu.Lock()
	g.entries.Clear()
	g.inflight = make(map[Key]*Future[V])
	g.mu.Unlock()
}

// Len returns the number of cached entries.
func (g *Gate[V]) Len() int {
	return g.entries.Len()
}

// Stats returns a snapshot of the gate's state and counters.
func (g *Gate[V]) Stats() Stats {
	g.mu.Lock()
	inflight := len(g.inflight)
	var oldest time.Time
	for _, f := range g.inflight {
		if oldest.IsZero() || f.Started().Before(oldest) {
			oldest = f.Started()
		}
	}
	g.mu.Unlock()

	return Stats{
		Size:           g.entries.Len(),
		Capacity:       g.entries.Capacity(),
		InFlight:       inflight,
		OldestInFlight: oldest,
		Hits:           g.hits.Load(),
		Coalesced:      g.coalesced.Load(),
		Dispatches:     g.dispatches.Load(),
		Failures:       g.failures.Load(),
		Evictions:      g.entries.Evictions(),
	}
}

// Stats is a point-in-time view of a Gate.
type Stats struct {
	Size           int
	Capacity       int
	InFlight       int
	OldestInFlight time.Time // zero when nothing is in flight
	Hits           int64
	Coalesced      int64
	Dispatches     int64
	Failures       int64
	Evictions      int64
}
