// Package caller exposes memoized, coalesced read-only contract calls.
//
// A Caller binds one contract address to its declared read operations. Each
// call is keyed canonically, served from a shared cache.Gate when possible,
// and otherwise dispatched once to a Transport no matter how many callers
// ask for it concurrently.
//
// # Block tags
//
// Operations accept an optional trailing CallOpts carrying a block tag. With
// CacheByBlockTag enabled (the default) every call must pin an explicit
// height; "latest" and "pending" are rejected before any node call is made,
// because caching under them would serve stale state. With it disabled the
// tag is forwarded to the node but ignored for keying, which suits values
// that never change, such as a token's symbol.
//
// # Failures
//
// Transport errors reach every coalesced caller unchanged. Failed results are
// not cached: the next call for the same key goes back to the node.
package caller
