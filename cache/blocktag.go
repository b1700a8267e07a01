package cache

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// TagKind identifies what a BlockTag pins a call to.
type TagKind uint8

const (
	// TagLatest reads the most recent block.
	TagLatest TagKind = iota
	// TagPending reads the pending block.
	TagPending
	// TagNumber reads a specific block height.
	TagNumber
)

// String returns the JSON-RPC spelling of the kind.
func (k TagKind) String() string {
	switch k {
	case TagLatest:
		return "latest"
	case TagPending:
		return "pending"
	case TagNumber:
		return "number"
	default:
		return "unknown"
	}
}

// BlockTag pins a read to a point in chain history.
type BlockTag struct {
	Kind   TagKind
	Number uint64 // only meaningful when Kind == TagNumber
}

// AtBlock returns a tag pinned to height n.
func AtBlock(n uint64) *BlockTag {
	return &BlockTag{Kind: TagNumber, Number: n}
}

// Latest returns the "latest" sentinel tag.
func Latest() *BlockTag {
	return &BlockTag{Kind: TagLatest}
}

// Pending returns the "pending" sentinel tag.
func Pending() *BlockTag {
	return &BlockTag{Kind: TagPending}
}

// ParseBlockTag parses "latest", "pending", a decimal height or a 0x-prefixed
// hex height. The empty string parses as latest.
func ParseBlockTag(s string) (*BlockTag, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "latest":
		return Latest(), nil
	case "pending":
		return Pending(), nil
	}
	if strings.HasPrefix(s, "0x") {
		n, err := hexutil.DecodeUint64(s)
		if err != nil {
			return nil, fmt.Errorf("cache: invalid block tag %q: %w", s, err)
		}
		return AtBlock(n), nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid block tag %q: %w", s, err)
	}
	return AtBlock(n), nil
}

// Stable reports whether the tag names the same state whenever it is read.
// Only explicit heights are stable.
func (t *BlockTag) Stable() bool {
	return t != nil && t.Kind == TagNumber
}

// BigInt returns the block number argument go-ethereum clients expect:
// nil for latest, rpc.PendingBlockNumber for pending, the height otherwise.
func (t *BlockTag) BigInt() *big.Int {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TagPending:
		return big.NewInt(int64(rpc.PendingBlockNumber))
	case TagNumber:
		return new(big.Int).SetUint64(t.Number)
	default:
		return nil
	}
}

func (t *BlockTag) String() string {
	if t == nil {
		return TagLatest.String()
	}
	if t.Kind == TagNumber {
		return strconv.FormatUint(t.Number, 10)
	}
	return t.Kind.String()
}
