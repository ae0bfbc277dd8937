package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps records in process memory. Used by tests and the
// "memory" backend setting.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (b *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[key] = append([]byte(nil), value...)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, key)
	return nil
}

// Len reports how many keys are stored.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Close() error { return nil }
