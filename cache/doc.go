// Package cache provides request coalescing and memoization for read-only
// contract calls.
//
// It provides a canonical Keccak-256 key builder over RLP-encoded arguments,
// a bounded LRU of pending results, and a Gate that guarantees at most one
// in-flight call per key.
package cache
