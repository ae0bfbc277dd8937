package store

import (
	"context"
	"database/sql"

	"github.com/hpungsan/winterarc/internal/db"
)

// SQLiteBackend stores records in the kv table of the local database.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend wraps an initialized database (see db.Init).
func NewSQLiteBackend(database *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{db: database}
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return db.GetValue(ctx, b.db, key)
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, value []byte) error {
	return db.PutValue(ctx, b.db, key, value)
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	return db.DeleteValue(ctx, b.db, key)
}

func (b *SQLiteBackend) Name() string { return "sqlite" }

func (b *SQLiteBackend) Close() error { return b.db.Close() }
