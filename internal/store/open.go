package store

import (
	"context"
	"fmt"

	"github.com/hpungsan/winterarc/internal/config"
	"github.com/hpungsan/winterarc/internal/db"
)

// Open creates the backend selected by cfg.Backend.
// baseDir is where the SQLite database lives (normally ~/.winterarc).
func Open(ctx context.Context, cfg *config.Config, baseDir string) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		database, err := db.Init(baseDir)
		if err != nil {
			return nil, err
		}
		db.ConfigurePool(database, cfg)
		return NewSQLiteBackend(database), nil
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case config.BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
