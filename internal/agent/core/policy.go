package core

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SelectionPolicy turns a model's ordinal reply into an index, and falls back
// to a uniform random pick whenever the reply cannot be used.
type SelectionPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelectionPolicy uses rng, or a time-seeded source when rng is nil.
func NewSelectionPolicy(rng *rand.Rand) *SelectionPolicy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SelectionPolicy{rng: rng}
}

// Choose returns a 0-based index into n options. parsed reports whether the
// reply was a valid 1-based ordinal; otherwise the index is random.
// n must be positive.
func (p *SelectionPolicy) Choose(n int, reply string) (idx int, parsed bool) {
	if i, ok := parseOrdinal(reply); ok && i >= 1 && i <= n {
		return i - 1, true
	}
	return p.Pick(n), false
}

// Pick returns a uniformly random index in [0, n).
func (p *SelectionPolicy) Pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

func parseOrdinal(reply string) (int, bool) {
	s := strings.TrimSpace(reply)
	s = strings.TrimRight(s, ".)")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
