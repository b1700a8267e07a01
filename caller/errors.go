package caller

import (
	"errors"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/jonwraymond/chaincall/cache"
	"github.com/jonwraymond/chaincall/resilience"
)

// Sentinel errors for caller operations.
var (
	// ErrNilTransport indicates New was given no transport.
	ErrNilTransport = errors.New("caller: transport is nil")

	// ErrInvalidOperation indicates an operation with an empty name, a
	// negative arity or a duplicate name.
	ErrInvalidOperation = errors.New("caller: invalid operation")

	// ErrUnknownOperation indicates a call to an operation that was not declared.
	ErrUnknownOperation = errors.New("caller: unknown operation")

	// ErrArgumentCount indicates the positional arguments do not match the
	// operation's arity.
	ErrArgumentCount = errors.New("caller: wrong number of arguments")

	// ErrMissingABI indicates ContractTransport was given an operation with
	// no ABI method to pack.
	ErrMissingABI = errors.New("caller: operation has no ABI method")

	// ErrEncoding indicates arguments or return data did not match the
	// operation's ABI.
	ErrEncoding = errors.New("caller: abi encoding failed")

	// ErrUnstableBlockTag is returned when a "latest" or "pending" read is
	// requested from a caller that keys by block tag.
	ErrUnstableBlockTag = cache.ErrUnstableBlockTag
)

// IsNodeFailure reports whether err points at the node rather than at the
// call itself. Reverts, ABI mismatches and caller cancellation are not node
// failures. Use it as resilience.CircuitBreakerConfig.IsFailure so a
// reverting contract cannot open the breaker.
func IsNodeFailure(err error) bool {
	if !resilience.DefaultIsFailure(err) {
		return false
	}
	if errors.Is(err, ErrEncoding) || errors.Is(err, ErrMissingABI) {
		return false
	}
	var dataErr rpc.DataError
	return !errors.As(err, &dataErr)
}
