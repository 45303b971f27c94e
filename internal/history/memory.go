package history

import (
	"context"
	"sync"
)

// Memory is a process-local history, mostly for tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	titles []string
}

func NewMemory(seed ...string) *Memory {
	m := &Memory{}
	for _, t := range seed {
		_ = m.Append(context.Background(), t)
	}
	return m
}

func (m *Memory) Load(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.titles...), nil
}

func (m *Memory) Append(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.titles {
		if t == title {
			return nil
		}
	}
	m.titles = append(m.titles, title)
	return nil
}
