package caller

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/jonwraymond/chaincall/cache"
)

//go:generate mockgen -destination=mock_transport_test.go -package=caller . Transport

// Transport performs the actual read-only call against a node.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Invoke should honor cancellation/deadlines.
// - Errors: errors are opaque to the cache and reach callers unchanged.
type Transport interface {
	Invoke(ctx context.Context, target common.Address, op Operation, args []any, tag *cache.BlockTag) ([]any, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, target common.Address, op Operation, args []any, tag *cache.BlockTag) ([]any, error)

// Invoke calls f.
func (f TransportFunc) Invoke(ctx context.Context, target common.Address, op Operation, args []any, tag *cache.BlockTag) ([]any, error) {
	return f(ctx, target, op, args, tag)
}

// ContractTransport performs eth_call through a go-ethereum backend such as
// *ethclient.Client, packing and unpacking with each operation's ABI method.
type ContractTransport struct {
	backend bind.ContractCaller
}

// NewContractTransport creates a transport over backend.
func NewContractTransport(backend bind.ContractCaller) *ContractTransport {
	return &ContractTransport{backend: backend}
}

// Invoke packs args, calls target at the tag's block and unpacks the result.
func (t *ContractTransport) Invoke(ctx context.Context, target common.Address, op Operation, args []any, tag *cache.BlockTag) ([]any, error) {
	if len(op.Method.ID) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingABI, op.Name)
	}

	input, err := op.Method.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %w", ErrEncoding, op.Name, err)
	}
	data := make([]byte, 0, len(op.Method.ID)+len(input))
	data = append(data, op.Method.ID...)
	data = append(data, input...)

	output, err := t.backend.CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, tag.BigInt())
	if err != nil {
		return nil, err
	}

	results, err := op.Method.Outputs.Unpack(output)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %w", ErrEncoding, op.Name, err)
	}
	return results, nil
}

// Ensure implementations satisfy Transport
var (
	_ Transport = (*ContractTransport)(nil)
	_ Transport = TransportFunc(nil)
)
