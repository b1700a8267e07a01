package cache

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Keyer derives canonical cache keys from call requests.
//
// Contract:
// - Determinism: equal requests must produce equal keys, regardless of which
// Go type carried a numeric argument.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives the key for req.
	Key(req Request) (Key, error)
}

// Argument kinds in the canonical encoding.
const (
	kindAddress uint64 = iota + 1
	kindInt
	kindBytes
	kindBool
	kindString
	kindArray
)

// DefaultKeyer hashes an RLP tree of tagged arguments with Keccak-256.
type DefaultKeyer struct {
	cacheByBlockTag bool
}

// NewDefaultKeyer creates a keyer. When cacheByBlockTag is false the block
// tag never reaches the key, so reads at different blocks share one entry.
func NewDefaultKeyer(cacheByBlockTag bool) *DefaultKeyer {
	return &DefaultKeyer{cacheByBlockTag: cacheByBlockTag}
}

// CacheByBlockTag reports whether block tags partition keys.
func (k *DefaultKeyer) CacheByBlockTag() bool {
	return k.cacheByBlockTag
}

// Key derives a deterministic key.
// Layout before hashing: rlp([target, operation, [args...], tag])
// where tag is empty when the policy excludes it.
func (k *DefaultKeyer) Key(req Request) (Key, error) {
	if strings.TrimSpace(req.Operation) == "" {
		return Key{}, ErrMissingOperation
	}

	var tag any = []byte{}
	if k.cacheByBlockTag {
		if !req.BlockTag.Stable() {
			return Key{}, fmt.Errorf("%w: %s", ErrUnstableBlockTag, req.BlockTag)
		}
		tag = []any{uint64(req.BlockTag.Kind), req.BlockTag.Number}
	}

	args := make([]any, len(req.Args))
	for i, arg := range req.Args {
		enc, _, err := canonicalArg(arg)
		if err != nil {
			return Key{}, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = enc
	}

	tree := []any{req.Target.Bytes(), []byte(req.Operation), args, tag}
	encoded, err := rlp.EncodeToBytes(tree)
	if err != nil {
		return Key{}, fmt.Errorf("cache: failed to encode request: %w", err)
	}

	return Key(crypto.Keccak256Hash(encoded)), nil
}

// canonicalArg maps v onto the tagged variant tree. It returns the encoded
// node and its kind so arrays can check they are homogeneous.
func canonicalArg(v any) (any, uint64, error) {
	switch x := v.(type) {
	case nil:
		return nil, 0, fmt.Errorf("%w: nil", ErrUnsupportedArgument)
	case common.Address:
		return tagged(kindAddress, x.Bytes()), kindAddress, nil
	case *common.Address:
		if x == nil {
			return nil, 0, fmt.Errorf("%w: nil address", ErrUnsupportedArgument)
		}
		return tagged(kindAddress, x.Bytes()), kindAddress, nil
	case *big.Int:
		if x == nil {
			return nil, 0, fmt.Errorf("%w: nil integer", ErrUnsupportedArgument)
		}
		return canonicalInt(x), kindInt, nil
	case big.Int:
		return canonicalInt(&x), kindInt, nil
	case []byte:
		return tagged(kindBytes, x), kindBytes, nil
	case string:
		return tagged(kindString, []byte(x)), kindString, nil
	case bool:
		b := byte(0)
		if x {
			b = 1
		}
		return tagged(kindBool, []byte{b}), kindBool, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return canonicalInt(big.NewInt(rv.Int())), kindInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return canonicalInt(new(big.Int).SetUint64(rv.Uint())), kindInt, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, 0, fmt.Errorf("%w: nil %s", ErrUnsupportedArgument, rv.Type())
		}
		return canonicalArg(rv.Elem().Interface())
	case reflect.Array, reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// Fixed byte arrays (bytes32, common.Hash) key like byte strings.
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return tagged(kindBytes, b), kindBytes, nil
		}
		return canonicalArray(rv)
	}

	return nil, 0, fmt.Errorf("%w: %T", ErrUnsupportedArgument, v)
}

func canonicalArray(rv reflect.Value) (any, uint64, error) {
	elems := make([]any, rv.Len())
	var elemKind uint64
	for i := 0; i < rv.Len(); i++ {
		enc, kind, err := canonicalArg(rv.Index(i).Interface())
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		if i > 0 && kind != elemKind {
			return nil, 0, fmt.Errorf("%w: mixed array element kinds", ErrUnsupportedArgument)
		}
		elemKind = kind
		elems[i] = enc
	}
	return []any{kindArray, elems}, kindArray, nil
}

// canonicalInt encodes sign and minimal big-endian magnitude, so 7, int8(7),
// uint64(7) and big.NewInt(7) all encode the same way.
func canonicalInt(x *big.Int) any {
	sign := byte(0)
	if x.Sign() < 0 {
		sign = 1
	}
	mag := new(big.Int).Abs(x).Bytes()
	return tagged(kindInt, append([]byte{sign}, mag...))
}

func tagged(kind uint64, payload []byte) any {
	return []any{kind, payload}
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
