package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/hpungsan/winterarc/internal/errors"
)

// GetValue returns the value stored under key.
// The boolean is false when no row exists.
func GetValue(ctx context.Context, db *sql.DB, key string) ([]byte, bool, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreUnavailable("sqlite", err)
	}
	return value, true, nil
}

// PutValue inserts or overwrites the value under key.
func PutValue(ctx context.Context, db *sql.DB, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return errors.NewStoreUnavailable("sqlite", err)
	}
	return nil
}

// DeleteValue removes the row for key. Deleting a missing key is not an error.
func DeleteValue(ctx context.Context, db *sql.DB, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewStoreUnavailable("sqlite", err)
	}
	return nil
}
