package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mohammad-safakhou/satirist/internal/fsutil"
)

// File keeps every article in one JSON document ({"articles": [...]}) and
// rewrites it on each mutation. Lookups are linear scans.
type File struct {
	path  string
	mu    sync.Mutex
	now   Clock
	newID IDGenerator
}

var _ Store = (*File)(nil)

type fileDB struct {
	Articles []Article `json:"articles"`
}

// NewFile returns a store backed by the JSON file at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path, now: utcNow}
}

// WithClock pins timestamps and ids; used by tests.
func (f *File) WithClock(now Clock, newID IDGenerator) *File {
	f.now = now
	f.newID = newID
	return f
}

// read treats a missing or unparsable file as an empty database.
func (f *File) read() fileDB {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fileDB{}
	}
	var db fileDB
	if err := json.Unmarshal(raw, &db); err != nil {
		return fileDB{}
	}
	return db
}

func (f *File) write(db fileDB) error {
	if db.Articles == nil {
		db.Articles = []Article{}
	}
	raw, err := json.MarshalIndent(db, "", "    ")
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	return fsutil.WriteFileAtomic(f.path, raw, 0o644)
}

func (f *File) Create(_ context.Context, in ArticleInput) (Article, error) {
	if err := in.Validate(); err != nil {
		return Article{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	db := f.read()
	a := newArticle(in, f.now, f.newID)
	db.Articles = append(db.Articles, a)
	if err := f.write(db); err != nil {
		return Article{}, err
	}
	return a, nil
}

func (f *File) ListPublished(_ context.Context, category string) ([]Article, error) {
	f.mu.Lock()
	db := f.read()
	f.mu.Unlock()

	out := []Article{}
	for _, a := range db.Articles {
		if a.Status != StatusPublished {
			continue
		}
		if category != "" && !strings.EqualFold(a.Category, category) {
			continue
		}
		out = append(out, a)
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *File) ListDrafts(_ context.Context) ([]Article, error) {
	f.mu.Lock()
	db := f.read()
	f.mu.Unlock()

	out := []Article{}
	for _, a := range db.Articles {
		if a.Status == StatusDraft {
			out = append(out, a)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *File) Get(_ context.Context, id string) (Article, error) {
	f.mu.Lock()
	db := f.read()
	f.mu.Unlock()

	for _, a := range db.Articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func (f *File) Publish(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	db := f.read()
	for i := range db.Articles {
		if db.Articles[i].ID == id {
			db.Articles[i].Status = StatusPublished
			return f.write(db)
		}
	}
	return ErrNotFound
}

func (f *File) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	db := f.read()
	for i := range db.Articles {
		if db.Articles[i].ID == id {
			db.Articles = append(db.Articles[:i], db.Articles[i+1:]...)
			return f.write(db)
		}
	}
	return ErrNotFound
}

func (f *File) Close() error { return nil }
