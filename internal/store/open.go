package store

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/satirist/config"
)

// Open builds the backend selected by storage.backend.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFile(cfg.File.Path), nil
	case "postgres":
		if cfg.Postgres.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Postgres.Timeout)
			defer cancel()
		}
		return OpenPostgres(ctx, cfg.Postgres.DSN())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
