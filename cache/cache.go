package cache

import (
	"encoding/hex"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultCapacity is the number of entries a cache holds when no capacity
// is configured.
const DefaultCapacity = 500

// Sentinel errors for cache operations.
var (
	ErrNilGate             = errors.New("cache: gate is nil")
	ErrInvalidCapacity     = errors.New("cache: capacity must be positive")
	ErrUnstableBlockTag    = errors.New("cache: block tag is not a stable cache dimension")
	ErrUnsupportedArgument = errors.New("cache: unsupported argument type")
	ErrMissingOperation    = errors.New("cache: operation name is required")
	ErrCallPanicked        = errors.New("cache: dispatched call panicked")
)

// Key is the canonical identity of a call. Logically identical requests
// always produce the same Key.
type Key [32]byte

// String returns the 0x-prefixed hex form of the key.
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

// Request describes one read-only call before it is keyed.
type Request struct {
	// Target is the contract being called.
	Target common.Address

	// Operation is the method name.
	Operation string

	// Args are the positional arguments in declaration order.
	Args []any

	// BlockTag pins the call to a block. Nil means latest.
	BlockTag *BlockTag
}
