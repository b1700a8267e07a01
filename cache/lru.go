package cache

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU is a capacity-bounded Key to entry map with least-recently-used
// eviction. Get and Put refresh recency; Has does not. Nothing expires by
// age: entries leave only through capacity pressure, Delete or Clear.
type LRU[E any] struct {
	mu        sync.Mutex
	lru       *simplelru.LRU[Key, E]
	capacity  int
	evictions atomic.Int64
}

// NewLRU creates a cache holding at most capacity entries.
func NewLRU[E any](capacity int) (*LRU[E], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	inner, err := simplelru.NewLRU[Key, E](capacity, nil)
	if err != nil {
		return nil, err
	}
	return &LRU[E]{lru: inner, capacity: capacity}, nil
}

// Get returns the entry for key and marks it most recently used.
func (c *LRU[E]) Get(key Key) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put stores entry under key, evicting the least recently used entry when
// the cache is full. It reports whether an eviction happened.
func (c *LRU[E]) Put(key Key, entry E) bool {
	c.mu.Lock()
	evicted := c.lru.Add(key, entry)
	c.mu.Unlock()

	if evicted {
		c.evictions.Add(1)
	}
	return evicted
}

// Peek returns the entry for key without touching its recency.
func (c *LRU[E]) Peek(key Key) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(key)
}

// Has reports whether key is cached without touching its recency.
func (c *LRU[E]) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Contains(key)
}

// Delete removes key. Idempotent - no error on miss.
func (c *LRU[E]) Delete(key Key) {
	c.mu.Lock()
	c.lru.Remove(key)
	c.mu.Unlock()
}

// Clear removes every entry.
func (c *LRU[E]) Clear() {
	c.mu.Lock()
	c.lru.Purge()
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *LRU[E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Capacity returns the configured capacity.
func (c *LRU[E]) Capacity() int {
	return c.capacity
}

// Evictions returns how many entries capacity pressure has pushed out.
func (c *LRU[E]) Evictions() int64 {
	return c.evictions.Load()
}
