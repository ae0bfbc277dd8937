package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hpungsan/winterarc/internal/foodlog"
)

// Persister is a mock for store.Persister.
type Persister struct {
	mock.Mock
}

func (m *Persister) Save(ctx context.Context, entries []foodlog.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *Persister) Load(ctx context.Context) ([]foodlog.Entry, bool, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]foodlog.Entry); ok {
		return entries, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *Persister) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
