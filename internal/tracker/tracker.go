// Package tracker owns the in-memory food log and keeps its persisted copy in
// step with every mutation.
//
// The log is mutated only by Add and Delete. Invalid input to Add is a silent
// no-op. Persistence failures never roll back or block the in-memory state:
// they are logged and returned to the caller as a non-fatal error.
package tracker

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/store"
)

// maxIDAttempts bounds regeneration when an ID source repeats itself.
const maxIDAttempts = 8

// Options configures a Tracker.
type Options struct {
	// Persister is required.
	Persister store.Persister

	// Goal defaults to foodlog.DailyGoal when <= 0.
	Goal int

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// IDSource defaults to monotonic ULIDs.
	IDSource func(time.Time) (string, error)
}

// Tracker is the food log state manager. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	entries   []foodlog.Entry
	issued    map[string]struct{}
	persister store.Persister
	goal      int
	clock     func() time.Time
	logger    *slog.Logger
	newID     func(time.Time) (string, error)
}

// Open creates a Tracker and rehydrates it from the persister.
// A missing record gives an empty log. So does a load error: the error is
// logged and the stored record is left untouched until the next mutation.
func Open(ctx context.Context, opts Options) (*Tracker, error) {
	if opts.Persister == nil {
		return nil, errors.NewInvalidRequest("tracker: persister is required")
	}

	t := &Tracker{
		issued:    make(map[string]struct{}),
		persister: opts.Persister,
		goal:      opts.Goal,
		clock:     opts.Clock,
		logger:    opts.Logger,
		newID:     opts.IDSource,
	}
	if t.goal <= 0 {
		t.goal = foodlog.DailyGoal
	}
	if t.clock == nil {
		t.clock = time.Now
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if t.newID == nil {
		t.newID = monotonicULID()
	}

	entries, found, err := t.persister.Load(ctx)
	switch {
	case err != nil:
		t.logger.Warn("food log not restored, starting empty", "error", err)
	case !found:
		t.logger.Debug("no stored food log")
	default:
		t.entries = entries
		for _, e := range entries {
			t.issued[e.ID] = struct{}{}
		}
		t.logger.Debug("food log restored", "entries", len(entries))
	}

	return t, nil
}

// monotonicULID returns an ID source producing strictly increasing ULIDs,
// even for calls within the same millisecond. Callers hold t.mu.
func monotonicULID() func(time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func(now time.Time) (string, error) {
		id, err := ulid.New(ulid.Timestamp(now), entropy)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}
}

// Add validates the raw input and, if valid, prepends a new entry and
// persists the full log.
//
// Invalid input returns (zero, false, nil) and changes nothing. When added
// is true the entry is in the log even if err is non-nil; err then reports
// that the write to the persister failed.
func (t *Tracker) Add(ctx context.Context, name, caloriesText string) (entry foodlog.Entry, added bool, err error) {
	name, calories, verr := foodlog.ValidateInput(name, caloriesText)
	if verr != nil {
		t.logger.Debug("add rejected", "reason", verr.Error())
		return foodlog.Entry{}, false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	id, err := t.nextID(now)
	if err != nil {
		return foodlog.Entry{}, false, errors.NewInternal(err)
	}

	entry = foodlog.Entry{
		ID:        id,
		Name:      name,
		Calories:  calories,
		CreatedAt: now.UTC(),
	}
	t.entries = append([]foodlog.Entry{entry}, t.entries...)
	t.issued[id] = struct{}{}

	return entry, true, t.persistLocked(ctx)
}

// nextID asks the ID source for an ID that has never been issued.
func (t *Tracker) nextID(now time.Time) (string, error) {
	for range maxIDAttempts {
		id, err := t.newID(now)
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		if id == "" {
			continue
		}
		if _, seen := t.issued[id]; !seen {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: no unique id after %d attempts", maxIDAttempts)
}

// Delete removes the entry with the given id. An unknown id returns
// (false, nil) and persists nothing. Removing the last entry clears the
// stored record instead of saving an empty log.
func (t *Tracker) Delete(ctx context.Context, id string) (deleted bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := foodlog.Find(t.entries, id)
	if i < 0 {
		return false, nil
	}

	next := make([]foodlog.Entry, 0, len(t.entries)-1)
	next = append(next, t.entries[:i]...)
	next = append(next, t.entries[i+1:]...)
	if len(next) == 0 {
		next = nil
	}
	t.entries = next

	return true, t.persistLocked(ctx)
}

// persistLocked writes the current log. Callers hold t.mu.
func (t *Tracker) persistLocked(ctx context.Context) error {
	var err error
	if len(t.entries) == 0 {
		err = t.persister.Clear(ctx)
	} else {
		err = t.persister.Save(ctx, foodlog.Clone(t.entries))
	}
	if err != nil {
		t.logger.Warn("food log not persisted", "entries", len(t.entries), "error", err)
	}
	return err
}

// Entries returns a copy of the log, newest first.
func (t *Tracker) Entries() []foodlog.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return foodlog.Clone(t.entries)
}

// Totals recomputes the goal metrics from the current log.
func (t *Tracker) Totals() foodlog.Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return foodlog.ComputeTotals(t.entries, t.goal)
}

// Snapshot returns the log and its totals as one consistent view.
func (t *Tracker) Snapshot() ([]foodlog.Entry, foodlog.Totals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return foodlog.Clone(t.entries), foodlog.ComputeTotals(t.entries, t.goal)
}

// State reports whether the log is empty.
func (t *Tracker) State() foodlog.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return foodlog.StateOf(t.entries)
}

// Len returns the number of entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Goal returns the daily calorie goal in effect.
func (t *Tracker) Goal() int {
	return t.goal
}

// Now returns the tracker's notion of the current time.
func (t *Tracker) Now() time.Time {
	return t.clock()
}
