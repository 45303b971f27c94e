package core

import "context"

// HistoryStore remembers source titles already used for published articles.
// Implementations live in internal/history.
type HistoryStore interface {
	Load(ctx context.Context) ([]string, error)
	// Append must be idempotent.
	Append(ctx context.Context, title string) error
}
