package cache

import (
	"errors"
	"testing"
)

func keyOf(b byte) Key {
	var k Key
	k[0] = b
	return k
}

func TestNewLRU_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := NewLRU[int](capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("NewLRU(%d) error = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestLRU_GetPut(t *testing.T) {
	c, err := NewLRU[string](4)
	if err != nil {
		t.Fatalf("NewLRU() error = %v", err)
	}

	if _, ok := c.Get(keyOf(1)); ok {
		t.Error("Get() on empty cache should miss")
	}

	c.Put(keyOf(1), "one")
	got, ok := c.Get(keyOf(1))
	if !ok || got != "one" {
		t.Errorf("Get() = %q, %v; want %q, true", got, ok, "one")
	}

	c.Put(keyOf(1), "uno")
	if got, _ := c.Get(keyOf(1)); got != "uno" {
		t.Errorf("Get() after replace = %q, want %q", got, "uno")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

// TestLRU_EvictsLeastRecentlyUsed inserts A, B, touches A, inserts C and
// expects B to be the one evicted.
func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := NewLRU[string](2)
	a, b, cc := keyOf('A'), keyOf('B'), keyOf('C')

	c.Put(a, "A")
	c.Put(b, "B")
	if _, ok := c.Get(a); !ok {
		t.Fatal("A should be cached")
	}
	if evicted := c.Put(cc, "C"); !evicted {
		t.Error("Put(C) should report an eviction")
	}

	if c.Has(b) {
		t.Error("B should have been evicted")
	}
	if !c.Has(a) || !c.Has(cc) {
		t.Error("A and C should be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.Evictions() != 1 {
		t.Errorf("Evictions() = %d, want 1", c.Evictions())
	}
}

func TestLRU_InsertionOrderBreaksTies(t *testing.T) {
	c, _ := NewLRU[int](3)
	for i := byte(1); i <= 3; i++ {
		c.Put(keyOf(i), int(i))
	}
	c.Put(keyOf(4), 4)

	if c.Has(keyOf(1)) {
		t.Error("oldest untouched entry should be evicted first")
	}
	for i := byte(2); i <= 4; i++ {
		if !c.Has(keyOf(i)) {
			t.Errorf("entry %d should be cached", i)
		}
	}
}

func TestLRU_HasAndPeekDoNotRefresh(t *testing.T) {
	c, _ := NewLRU[int](2)
	c.Put(keyOf(1), 1)
	c.Put(keyOf(2), 2)

	_ = c.Has(keyOf(1))
	_, _ = c.Peek(keyOf(1))
	c.Put(keyOf(3), 3)

	if c.Has(keyOf(1)) {
		t.Error("Has/Peek should not refresh recency")
	}
}

func TestLRU_NeverExceedsCapacity(t *testing.T) {
	c, _ := NewLRU[int](8)
	for i := 0; i < 100; i++ {
		c.Put(keyOf(byte(i)), i)
		if c.Len() > c.Capacity() {
			t.Fatalf("Len() = %d exceeds capacity %d", c.Len(), c.Capacity())
		}
	}
	if c.Evictions() != 92 {
		t.Errorf("Evictions() = %d, want 92", c.Evictions())
	}
}

func TestLRU_DeleteAndClear(t *testing.T) {
	c, _ := NewLRU[int](4)
	c.Put(keyOf(1), 1)
	c.Put(keyOf(2), 2)

	c.Delete(keyOf(1))
	c.Delete(keyOf(9)) // idempotent
	if c.Has(keyOf(1)) {
		t.Error("Delete() should remove the entry")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", c.Len())
	}
	if c.Evictions() != 0 {
		t.Errorf("Delete/Clear should not count as evictions, got %d", c.Evictions())
	}
}
