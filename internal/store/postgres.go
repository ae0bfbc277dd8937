package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpungsan/winterarc/internal/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS winterarc_kv (
  key        TEXT PRIMARY KEY,
  value      BYTEA NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresBackend stores records in the winterarc_kv table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and ensures the table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.NewStoreUnavailable("postgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewStoreUnavailable("postgres", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg migrate: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.pool.QueryRow(ctx, `SELECT value FROM winterarc_kv WHERE key = $1`, key).Scan(&value)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreUnavailable("postgres", err)
	}
	return value, true, nil
}

func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO winterarc_kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := b.pool.Exec(ctx, query, key, value); err != nil {
		return errors.NewStoreUnavailable("postgres", err)
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM winterarc_kv WHERE key = $1`, key); err != nil {
		return errors.NewStoreUnavailable("postgres", err)
	}
	return nil
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
