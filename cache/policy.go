package cache

// Policy configures how a caller keys and bounds its cache.
type Policy struct {
	// Capacity is the maximum number of cached results.
	// If zero, DefaultCapacity is used.
	Capacity int

	// CacheByBlockTag makes the block tag part of the key. When false, reads
	// at different blocks collapse onto one entry, which is only correct for
	// data that never changes (a token's name or decimals).
	CacheByBlockTag bool
}

// DefaultPolicy returns the default caching policy.
// Capacity: 500, CacheByBlockTag: true
func DefaultPolicy() Policy {
	return Policy{
		Capacity:        DefaultCapacity,
		CacheByBlockTag: true,
	}
}

// ImmutablePolicy returns a policy for data that does not change between
// blocks.
func ImmutablePolicy() Policy {
	return Policy{
		Capacity:        DefaultCapacity,
		CacheByBlockTag: false,
	}
}

// EffectiveCapacity returns the capacity to use, applying the default.
func (p Policy) EffectiveCapacity() int {
	if p.Capacity <= 0 {
		return DefaultCapacity
	}
	return p.Capacity
}
