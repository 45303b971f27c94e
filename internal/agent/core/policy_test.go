package core

import (
	"math/rand"
	"testing"
)

func TestSelectionPolicyChoose(t *testing.T) {
	p := NewSelectionPolicy(rand.New(rand.NewSource(1)))
	cases := []struct {
		reply  string
		n      int
		want   int
		parsed bool
	}{
		{"2", 3, 1, true},
		{" 3 \n", 3, 2, true},
		{"1.", 4, 0, true},
		{"0", 3, -1, false},
		{"4", 3, -1, false},
		{"-1", 3, -1, false},
		{"the second one", 3, -1, false},
		{"", 2, -1, false},
	}
	for _, tc := range cases {
		idx, parsed := p.Choose(tc.n, tc.reply)
		if parsed != tc.parsed {
			t.Fatalf("reply %q: parsed=%v want %v", tc.reply, parsed, tc.parsed)
		}
		if idx < 0 || idx >= tc.n {
			t.Fatalf("reply %q: index %d out of range [0,%d)", tc.reply, idx, tc.n)
		}
		if tc.want >= 0 && idx != tc.want {
			t.Fatalf("reply %q: got %d want %d", tc.reply, idx, tc.want)
		}
	}
}

func TestSelectionPolicyPickCoversRange(t *testing.T) {
	p := NewSelectionPolicy(rand.New(rand.NewSource(42)))
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		idx := p.Pick(3)
		if idx < 0 || idx >= 3 {
			t.Fatalf("index %d out of range", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected every index to be picked at least once, got %v", seen)
	}
}
