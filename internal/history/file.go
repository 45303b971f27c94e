// Package history remembers which source titles have already been turned
// into articles so the same story is not picked twice.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mohammad-safakhou/satirist/internal/fsutil"
)

// File persists history as a JSON array of strings.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a history backed by path. The file need not exist yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load returns the recorded titles in insertion order. A missing or
// malformed file is an empty history.
func (f *File) Load(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(), nil
}

func (f *File) read() []string {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return []string{}
	}
	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil {
		return []string{}
	}
	return titles
}

// Append records title unless it is already present.
func (f *File) Append(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	titles := f.read()
	for _, t := range titles {
		if t == title {
			return nil
		}
	}
	titles = append(titles, title)
	raw, err := json.MarshalIndent(titles, "", "    ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return fsutil.WriteFileAtomic(f.path, raw, 0o644)
}
