// Package store persists the food log in a keyed record.
//
// A Backend is a minimal key-value store (SQLite, Redis, Postgres or memory).
// LogStore is the persistence adapter on top of it: it owns one key and
// encodes the whole ordered log into that single record. Nothing in this
// package reads a process-wide key; every LogStore is constructed explicitly.
package store

import (
	"context"
	"fmt"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
)

// DefaultKey is the record key used when none is configured.
const DefaultKey = "foodLog"

// Backend is a durable key-value store.
type Backend interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put overwrites the value under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Name identifies the backend in logs and errors.
	Name() string
	Close() error
}

// Persister is what the state manager needs from persistence.
type Persister interface {
	Save(ctx context.Context, entries []foodlog.Entry) error
	Load(ctx context.Context) (entries []foodlog.Entry, found bool, err error)
	Clear(ctx context.Context) error
}

// LogStore saves, loads and clears the food log under a single key.
type LogStore struct {
	backend Backend
	key     string
}

var _ Persister = (*LogStore)(nil)

// NewLogStore creates a LogStore bound to key. An empty key uses DefaultKey.
func NewLogStore(backend Backend, key string) *LogStore {
	if key == "" {
		key = DefaultKey
	}
	return &LogStore{backend: backend, key: key}
}

// Key returns the record key this store writes.
func (s *LogStore) Key() string { return s.key }

// Backend returns the underlying backend.
func (s *LogStore) Backend() Backend { return s.backend }

// Save overwrites the stored record with the full ordered log.
func (s *LogStore) Save(ctx context.Context, entries []foodlog.Entry) error {
	data, err := foodlog.Encode(entries)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("encode food log: %w", err))
	}
	return s.backend.Put(ctx, s.key, data)
}

// Load returns the stored log. found is false when no record exists.
// A record that cannot be decoded yields a STORE_CORRUPT error.
func (s *LogStore) Load(ctx context.Context) ([]foodlog.Entry, bool, error) {
	data, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	entries, err := foodlog.Decode(data)
	if err != nil {
		return nil, false, errors.NewStoreCorrupt(s.key, err)
	}
	return entries, true, nil
}

// Clear removes the stored record entirely.
func (s *LogStore) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key)
}
