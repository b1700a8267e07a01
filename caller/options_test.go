package caller

import (
	"testing"
)

func TestSplitOptions(t *testing.T) {
	op := NewOperation("balanceOf", 1)
	opts := AtBlock(7)

	tests := []struct {
		name           string
		args           []any
		wantPositional int
		wantTag        string
	}{
		{name: "value options", args: []any{holder, opts}, wantPositional: 1, wantTag: "7"},
		{name: "pointer options", args: []any{holder, &opts}, wantPositional: 1, wantTag: "7"},
		{name: "nil pointer options", args: []any{holder, (*CallOpts)(nil)}, wantPositional: 1, wantTag: "latest"},
		{name: "no options", args: []any{holder}, wantPositional: 1, wantTag: "latest"},
		{name: "options at arity stay positional", args: []any{opts}, wantPositional: 1, wantTag: "latest"},
		{name: "non-options at arity+1", args: []any{holder, alice}, wantPositional: 2, wantTag: "latest"},
		{name: "options beyond arity+1", args: []any{holder, alice, opts}, wantPositional: 3, wantTag: "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positional, got := splitOptions(op, tt.args)
			if len(positional) != tt.wantPositional {
				t.Errorf("positional = %d, want %d", len(positional), tt.wantPositional)
			}
			if got.BlockTag.String() != tt.wantTag {
				t.Errorf("tag = %s, want %s", got.BlockTag, tt.wantTag)
			}
		})
	}
}

func TestOptions_Apply(t *testing.T) {
	s := settings{}
	for _, opt := range []Option{
		WithCapacity(64),
		WithCacheByBlockTag(false),
		WithDispatchTimeout(0),
	} {
		opt(&s)
	}

	if s.policy.Capacity != 64 || s.policy.CacheByBlockTag {
		t.Errorf("policy = %+v", s.policy)
	}
	if len(s.guardOpts) != 1 {
		t.Errorf("guard options = %d, want 1", len(s.guardOpts))
	}
}
