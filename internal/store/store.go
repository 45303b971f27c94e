package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no article matches the requested id.
var ErrNotFound = errors.New("article not found")

// Article statuses. Draft is the only initial state; Publish is the only transition.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article is one stored satirical article.
type Article struct {
	ID        string    `json:"id"`
	Headline  string    `json:"headline"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// ArticleInput is the create-draft payload submitted by the pipeline.
type ArticleInput struct {
	Headline string `json:"headline"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// Validate reports the first missing required field.
func (in ArticleInput) Validate() error {
	if strings.TrimSpace(in.Headline) == "" {
		return errors.New("headline is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

// Store is the CRUD surface of the content API.
type Store interface {
	Create(ctx context.Context, in ArticleInput) (Article, error)
	// ListPublished returns published articles newest first; a non-empty
	// category filters case-insensitively.
	ListPublished(ctx context.Context, category string) ([]Article, error)
	ListDrafts(ctx context.Context) ([]Article, error)
	Get(ctx context.Context, id string) (Article, error)
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Clock and IDs are swappable so tests can pin them.
type Clock func() time.Time

type IDGenerator func() string

func utcNow() time.Time { return time.Now().UTC() }

func newArticle(in ArticleInput, now Clock, newID IDGenerator) Article {
	if now == nil {
		now = utcNow
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return Article{
		ID:        newID(),
		Headline:  in.Headline,
		Content:   in.Content,
		Author:    in.Author,
		Category:  in.Category,
		CreatedAt: now(),
		Status:    StatusDraft,
	}
}

func sortNewestFirst(items []Article) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}
