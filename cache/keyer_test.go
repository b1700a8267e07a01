package cache

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	tokenA = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tokenB = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	holder = common.HexToAddress("0x28C6c06298d514Db089934071355E5743bf21d60")
)

func mustKey(t *testing.T, k Keyer, req Request) Key {
	t.Helper()
	key, err := k.Key(req)
	if err != nil {
		t.Fatalf("Key(%+v) error = %v", req, err)
	}
	return key
}

func TestKeyer_SameInputsSameKey(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	req := Request{Target: tokenA, Operation: "balanceOf", Args: []any{holder}, BlockTag: AtBlock(100)}

	first := mustKey(t, keyer, req)
	for i := 0; i < 5; i++ {
		if got := mustKey(t, keyer, req); got != first {
			t.Errorf("Key should be consistent across calls:\n  first=%s\n  got=%s", first, got)
		}
	}
}

func TestKeyer_TargetCaseInsensitive(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	lower := common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f")

	k1 := mustKey(t, keyer, Request{Target: tokenA, Operation: "totalSupply", BlockTag: AtBlock(1)})
	k2 := mustKey(t, keyer, Request{Target: lower, Operation: "totalSupply", BlockTag: AtBlock(1)})
	if k1 != k2 {
		t.Errorf("checksummed and lower-case targets should key alike:\n  k1=%s\n  k2=%s", k1, k2)
	}
}

func TestKeyer_NumericRepresentations(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	base := Request{Target: tokenA, Operation: "getReserve", BlockTag: AtBlock(7)}

	reps := []any{7, int8(7), int64(7), uint(7), uint16(7), uint64(7), big.NewInt(7), *big.NewInt(7)}
	var want Key
	for i, rep := range reps {
		req := base
		req.Args = []any{rep}
		got := mustKey(t, keyer, req)
		if i == 0 {
			want = got
			continue
		}
		if got != want {
			t.Errorf("argument %T(7) keyed differently from int(7)", rep)
		}
	}

	neg := base
	neg.Args = []any{-7}
	if mustKey(t, keyer, neg) == want {
		t.Error("-7 and 7 should key differently")
	}

	bigNeg := base
	bigNeg.Args = []any{big.NewInt(-7)}
	if mustKey(t, keyer, neg) != mustKey(t, keyer, bigNeg) {
		t.Error("int(-7) and big.NewInt(-7) should key alike")
	}
}

func TestKeyer_ArgumentSensitivity(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	tag := AtBlock(100)

	tests := []struct {
		name string
		a, b Request
	}{
		{
			"different holder",
			Request{Target: tokenA, Operation: "balanceOf", Args: []any{holder}, BlockTag: tag},
			Request{Target: tokenA, Operation: "balanceOf", Args: []any{tokenB}, BlockTag: tag},
		},
		{
			"different target",
			Request{Target: tokenA, Operation: "balanceOf", Args: []any{holder}, BlockTag: tag},
			Request{Target: tokenB, Operation: "balanceOf", Args: []any{holder}, BlockTag: tag},
		},
		{
			"different operation",
			Request{Target: tokenA, Operation: "name", BlockTag: tag},
			Request{Target: tokenA, Operation: "symbol", BlockTag: tag},
		},
		{
			"different block",
			Request{Target: tokenA, Operation: "totalSupply", BlockTag: AtBlock(100)},
			Request{Target: tokenA, Operation: "totalSupply", BlockTag: AtBlock(101)},
		},
		{
			"bool value",
			Request{Target: tokenA, Operation: "f", Args: []any{true}, BlockTag: tag},
			Request{Target: tokenA, Operation: "f", Args: []any{false}, BlockTag: tag},
		},
		{
			"bytes vs string of same content",
			Request{Target: tokenA, Operation: "f", Args: []any{[]byte("ab")}, BlockTag: tag},
			Request{Target: tokenA, Operation: "f", Args: []any{"ab"}, BlockTag: tag},
		},
		{
			"array order",
			Request{Target: tokenA, Operation: "f", Args: []any{[]common.Address{tokenA, tokenB}}, BlockTag: tag},
			Request{Target: tokenA, Operation: "f", Args: []any{[]common.Address{tokenB, tokenA}}, BlockTag: tag},
		},
		{
			"argument boundaries",
			Request{Target: tokenA, Operation: "f", Args: []any{"ab", "c"}, BlockTag: tag},
			Request{Target: tokenA, Operation: "f", Args: []any{"a", "bc"}, BlockTag: tag},
		},
		{
			"address vs integer",
			Request{Target: tokenA, Operation: "f", Args: []any{common.Address{}}, BlockTag: tag},
			Request{Target: tokenA, Operation: "f", Args: []any{0}, BlockTag: tag},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka := mustKey(t, keyer, tt.a)
			kb := mustKey(t, keyer, tt.b)
			if ka == kb {
				t.Errorf("Keys should differ:\n  a=%s\n  b=%s", ka, kb)
			}
		})
	}
}

func TestKeyer_FixedBytesKeyLikeSlices(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	h := common.HexToHash("0x01")

	k1 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{h}, BlockTag: AtBlock(1)})
	k2 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{h.Bytes()}, BlockTag: AtBlock(1)})
	if k1 != k2 {
		t.Error("common.Hash and its byte slice should key alike")
	}
}

func TestKeyer_ArrayRepresentations(t *testing.T) {
	keyer := NewDefaultKeyer(true)
	tag := AtBlock(1)

	k1 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{[]*big.Int{big.NewInt(1), big.NewInt(2)}}, BlockTag: tag})
	k2 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{[]uint64{1, 2}}, BlockTag: tag})
	k3 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{[2]int{1, 2}}, BlockTag: tag})
	if k1 != k2 || k2 != k3 {
		t.Errorf("equal integer arrays should key alike:\n  k1=%s\n  k2=%s\n  k3=%s", k1, k2, k3)
	}
}

func TestKeyer_UnstableBlockTag(t *testing.T) {
	keyer := NewDefaultKeyer(true)

	for _, tag := range []*BlockTag{nil, Latest(), Pending()} {
		_, err := keyer.Key(Request{Target: tokenA, Operation: "totalSupply", BlockTag: tag})
		if !errors.Is(err, ErrUnstableBlockTag) {
			t.Errorf("Key() with tag %s error = %v, want ErrUnstableBlockTag", tag, err)
		}
	}
}

func TestKeyer_BlockTagExcludedByPolicy(t *testing.T) {
	keyer := NewDefaultKeyer(false)

	k1 := mustKey(t, keyer, Request{Target: tokenA, Operation: "name", BlockTag: AtBlock(100)})
	k2 := mustKey(t, keyer, Request{Target: tokenA, Operation: "name", BlockTag: AtBlock(200)})
	k3 := mustKey(t, keyer, Request{Target: tokenA, Operation: "name", BlockTag: Latest()})
	k4 := mustKey(t, keyer, Request{Target: tokenA, Operation: "name"})
	if k1 != k2 || k2 != k3 || k3 != k4 {
		t.Error("block tag should not affect keys when excluded by policy")
	}

	partitioned := mustKey(t, NewDefaultKeyer(true), Request{Target: tokenA, Operation: "name", BlockTag: AtBlock(100)})
	if partitioned == k1 {
		t.Error("partitioned and collapsed keys should differ")
	}
}

func TestKeyer_UnsupportedArguments(t *testing.T) {
	keyer := NewDefaultKeyer(false)
	var nilInt *big.Int
	var nilAddr *common.Address

	tests := []struct {
		name string
		arg  any
	}{
		{"nil", nil},
		{"nil big.Int", nilInt},
		{"nil address", nilAddr},
		{"float", 1.5},
		{"map", map[string]int{"a": 1}},
		{"struct", struct{ A int }{1}},
		{"mixed array", []any{1, "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := keyer.Key(Request{Target: tokenA, Operation: "f", Args: []any{tt.arg}})
			if !errors.Is(err, ErrUnsupportedArgument) {
				t.Errorf("Key() error = %v, want ErrUnsupportedArgument", err)
			}
		})
	}
}

func TestKeyer_MissingOperation(t *testing.T) {
	keyer := NewDefaultKeyer(false)
	if _, err := keyer.Key(Request{Target: tokenA, Operation: "  "}); !errors.Is(err, ErrMissingOperation) {
		t.Errorf("Key() error = %v, want ErrMissingOperation", err)
	}
}

func TestKeyer_NoArgsVsEmptyArray(t *testing.T) {
	keyer := NewDefaultKeyer(false)

	k1 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f"})
	k2 := mustKey(t, keyer, Request{Target: tokenA, Operation: "f", Args: []any{[]uint64{}}})
	if k1 == k2 {
		t.Error("no arguments and one empty array should key differently")
	}
}
