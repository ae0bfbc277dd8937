package tracker

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/store"
	"github.com/hpungsan/winterarc/internal/store/mocks"
)

var fixedNow = time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// openEmpty opens a tracker over a mock that reports no stored record.
func openEmpty(t *testing.T) (*Tracker, *mocks.Persister) {
	t.Helper()
	p := &mocks.Persister{}
	p.On("Load", mock.Anything).Return(nil, false, nil).Once()
	tr, err := Open(context.Background(), Options{Persister: p, Clock: fixedClock})
	require.NoError(t, err)
	return tr, p
}

func TestOpen_RequiresPersister(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestOpen_NoStoredRecord(t *testing.T) {
	tr, p := openEmpty(t)
	require.Equal(t, foodlog.StateEmpty, tr.State())
	require.Equal(t, 0, tr.Len())
	require.Equal(t, foodlog.DailyGoal, tr.Goal())
	p.AssertExpectations(t)
}

func TestOpen_Rehydrates(t *testing.T) {
	stored := []foodlog.Entry{
		{ID: "b", Name: "Coffee", Calories: 50, CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "a", Name: "Oatmeal", Calories: 350, CreatedAt: fixedNow.Add(-2 * time.Hour)},
	}
	p := &mocks.Persister{}
	p.On("Load", mock.Anything).Return(stored, true, nil).Once()

	tr, err := Open(context.Background(), Options{Persister: p, Goal: 1000})
	require.NoError(t, err)
	require.Equal(t, stored, tr.Entries())
	require.Equal(t, 400, tr.Totals().TotalCalories)
	require.Equal(t, 600, tr.Totals().Remaining)
}

func TestOpen_LoadErrorStartsEmpty(t *testing.T) {
	for _, loadErr := range []error{
		errors.NewStoreCorrupt("foodLog", fmt.Errorf("bad timestamp")),
		errors.NewStoreUnavailable("redis", fmt.Errorf("connection refused")),
	} {
		p := &mocks.Persister{}
		p.On("Load", mock.Anything).Return(nil, false, loadErr).Once()

		tr, err := Open(context.Background(), Options{Persister: p})
		require.NoError(t, err)
		require.Equal(t, foodlog.StateEmpty, tr.State())
		// The corrupt record is not touched until the next mutation
		p.AssertNotCalled(t, "Clear", mock.Anything)
		p.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	}
}

func TestAdd_PrependsAndSaves(t *testing.T) {
	tr, p := openEmpty(t)
	ctx := context.Background()

	p.On("Save", mock.Anything, mock.MatchedBy(func(e []foodlog.Entry) bool { return len(e) == 1 })).Return(nil).Once()
	first, added, err := tr.Add(ctx, "  Oatmeal  ", " 350 ")
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, "Oatmeal", first.Name)
	require.Equal(t, 350, first.Calories)
	require.Equal(t, fixedNow, first.CreatedAt)
	require.NotEmpty(t, first.ID)

	p.On("Save", mock.Anything, mock.MatchedBy(func(e []foodlog.Entry) bool {
		return len(e) == 2 && e[0].Name == "Coffee" && e[1].ID == first.ID
	})).Return(nil).Once()
	second, added, err := tr.Add(ctx, "Coffee", "50")
	require.NoError(t, err)
	require.True(t, added)

	entries := tr.Entries()
	require.Equal(t, []string{second.ID, first.ID}, []string{entries[0].ID, entries[1].ID})
	require.Equal(t, 400, tr.Totals().TotalCalories)
	require.Equal(t, foodlog.StateNonEmpty, tr.State())
	p.AssertExpectations(t)
}

func TestAdd_InvalidInputIsSilentNoOp(t *testing.T) {
	tests := []struct {
		name     string
		food     string
		calories string
	}{
		{"empty name", "", "100"},
		{"blank name", "   ", "100"},
		{"zero calories", "Pizza", "0"},
		{"negative calories", "Pizza", "-5"},
		{"non-numeric calories", "Pizza", "abc"},
		{"empty calories", "Pizza", ""},
		{"decimal calories", "Pizza", "12.5"},
		{"calories above max", "Pizza", "100001"},
		{"calories at int64 max", "Pizza", "9223372036854775807"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, p := openEmpty(t)

			entry, added, err := tr.Add(context.Background(), tc.food, tc.calories)
			require.NoError(t, err)
			require.False(t, added)
			require.Equal(t, foodlog.Entry{}, entry)
			require.Equal(t, 0, tr.Len())
			p.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			p.AssertNotCalled(t, "Clear", mock.Anything)
		})
	}
}

func TestAdd_UniqueIDsWithinOneMillisecond(t *testing.T) {
	tr, p := openEmpty(t)
	p.On("Save", mock.Anything, mock.Anything).Return(nil)

	seen := make(map[string]bool)
	for i := range 200 {
		e, added, err := tr.Add(context.Background(), fmt.Sprintf("item %d", i), "10")
		require.NoError(t, err)
		require.True(t, added)
		require.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	require.Equal(t, 2000, tr.Totals().TotalCalories)
}

func TestAdd_RegeneratesRepeatedIDs(t *testing.T) {
	ids := []string{"dup", "dup", "dup", "fresh"}
	source := func(time.Time) (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	p := &mocks.Persister{}
	p.On("Load", mock.Anything).Return(nil, false, nil)
	p.On("Save", mock.Anything, mock.Anything).Return(nil)
	tr, err := Open(context.Background(), Options{Persister: p, IDSource: source})
	require.NoError(t, err)

	a, _, err := tr.Add(context.Background(), "A", "1")
	require.NoError(t, err)
	b, _, err := tr.Add(context.Background(), "B", "1")
	require.NoError(t, err)
	require.Equal(t, "dup", a.ID)
	require.Equal(t, "fresh", b.ID)
}

func TestAdd_DeletedIDsAreNotReused(t *testing.T) {
	source := func(time.Time) (string, error) { return "same", nil }

	p := &mocks.Persister{}
	p.On("Load", mock.Anything).Return(nil, false, nil)
	p.On("Save", mock.Anything, mock.Anything).Return(nil)
	p.On("Clear", mock.Anything).Return(nil)
	tr, err := Open(context.Background(), Options{Persister: p, IDSource: source})
	require.NoError(t, err)

	e, _, err := tr.Add(context.Background(), "A", "1")
	require.NoError(t, err)
	_, err = tr.Delete(context.Background(), e.ID)
	require.NoError(t, err)

	_, added, err := tr.Add(context.Background(), "B", "1")
	require.Error(t, err)
	require.False(t, added)
	require.Equal(t, 0, tr.Len())
}

func TestAdd_SaveFailureKeepsEntry(t *testing.T) {
	tr, p := openEmpty(t)
	ctx := context.Background()
	saveErr := errors.NewStoreUnavailable("redis", stderrors.New("connection refused"))

	p.On("Save", mock.Anything, mock.Anything).Return(saveErr).Once()
	e, added, err := tr.Add(ctx, "Bagel", "280")
	require.True(t, added)
	require.True(t, errors.Is(err, errors.ErrStoreUnavailable))
	require.Equal(t, []foodlog.Entry{e}, tr.Entries())

	// Later mutations still work and persist the full log
	p.On("Save", mock.Anything, mock.MatchedBy(func(e []foodlog.Entry) bool { return len(e) == 2 })).Return(nil).Once()
	_, added, err = tr.Add(ctx, "Apple", "95")
	require.NoError(t, err)
	require.True(t, added)
	require.Equal(t, 375, tr.Totals().TotalCalories)
	p.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	stored := []foodlog.Entry{
		{ID: "c", Name: "Salad", Calories: 200, CreatedAt: fixedNow},
		{ID: "b", Name: "Coffee", Calories: 50, CreatedAt: fixedNow},
		{ID: "a", Name: "Oatmeal", Calories: 350, CreatedAt: fixedNow},
	}

	t.Run("middle entry keeps relative order", func(t *testing.T) {
		p := &mocks.Persister{}
		p.On("Load", mock.Anything).Return(foodlog.Clone(stored), true, nil)
		p.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		tr, err := Open(context.Background(), Options{Persister: p})
		require.NoError(t, err)

		deleted, err := tr.Delete(context.Background(), "b")
		require.NoError(t, err)
		require.True(t, deleted)

		entries := tr.Entries()
		require.Len(t, entries, 2)
		require.Equal(t, "c", entries[0].ID)
		require.Equal(t, "a", entries[1].ID)
		require.Equal(t, 550, tr.Totals().TotalCalories)
		p.AssertNotCalled(t, "Clear", mock.Anything)
		p.AssertExpectations(t)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		p := &mocks.Persister{}
		p.On("Load", mock.Anything).Return(foodlog.Clone(stored), true, nil)
		tr, err := Open(context.Background(), Options{Persister: p})
		require.NoError(t, err)

		deleted, err := tr.Delete(context.Background(), "zzz")
		require.NoError(t, err)
		require.False(t, deleted)
		require.Equal(t, stored, tr.Entries())
		p.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		p.AssertNotCalled(t, "Clear", mock.Anything)
	})

	t.Run("unknown id on empty log stays empty", func(t *testing.T) {
		tr, p := openEmpty(t)
		deleted, err := tr.Delete(context.Background(), "a")
		require.NoError(t, err)
		require.False(t, deleted)
		require.Equal(t, foodlog.StateEmpty, tr.State())
		p.AssertNotCalled(t, "Clear", mock.Anything)
	})

	t.Run("last entry clears instead of saving", func(t *testing.T) {
		p := &mocks.Persister{}
		p.On("Load", mock.Anything).Return(foodlog.Clone(stored[:1]), true, nil)
		p.On("Clear", mock.Anything).Return(nil).Once()
		tr, err := Open(context.Background(), Options{Persister: p})
		require.NoError(t, err)

		deleted, err := tr.Delete(context.Background(), "c")
		require.NoError(t, err)
		require.True(t, deleted)
		require.Equal(t, foodlog.StateEmpty, tr.State())
		require.Equal(t, 0, tr.Totals().TotalCalories)
		p.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		p.AssertExpectations(t)
	})

	t.Run("clear failure still empties memory", func(t *testing.T) {
		p := &mocks.Persister{}
		p.On("Load", mock.Anything).Return(foodlog.Clone(stored[:1]), true, nil)
		p.On("Clear", mock.Anything).Return(errors.NewStoreUnavailable("sqlite", stderrors.New("disk I/O error"))).Once()
		tr, err := Open(context.Background(), Options{Persister: p})
		require.NoError(t, err)

		deleted, err := tr.Delete(context.Background(), "c")
		require.True(t, deleted)
		require.Error(t, err)
		require.Equal(t, 0, tr.Len())
	})
}

func TestEntries_ReturnsCopy(t *testing.T) {
	tr, p := openEmpty(t)
	p.On("Save", mock.Anything, mock.Anything).Return(nil)
	_, _, err := tr.Add(context.Background(), "Toast", "120")
	require.NoError(t, err)

	entries := tr.Entries()
	entries[0].Name = "mutated"
	require.Equal(t, "Toast", tr.Entries()[0].Name)
}

func TestTotals_GoalArithmetic(t *testing.T) {
	tests := []struct {
		name      string
		calories  []string
		remaining int
		overBy    int
		percent   int
	}{
		{"under goal", []string{"1000", "800"}, 400, 0, 82},
		{"over goal", []string{"2000", "500"}, 0, 300, 114},
		{"exactly at goal", []string{"2200"}, 0, 0, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, p := openEmpty(t)
			p.On("Save", mock.Anything, mock.Anything).Return(nil)
			for _, c := range tc.calories {
				_, added, err := tr.Add(context.Background(), "food", c)
				require.NoError(t, err)
				require.True(t, added)
			}

			totals := tr.Totals()
			require.Equal(t, tc.remaining, totals.Remaining)
			require.Equal(t, tc.overBy, totals.OverBy)
			require.Equal(t, tc.percent, totals.PercentOfGoal)
		})
	}
}

func TestTotals_LargeEntriesDoNotWrap(t *testing.T) {
	tr, p := openEmpty(t)
	p.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, added, err := tr.Add(context.Background(), "A", "9223372036854775807")
	require.NoError(t, err)
	require.False(t, added)

	for _, name := range []string{"A", "B"} {
		_, added, err := tr.Add(context.Background(), name, fmt.Sprint(foodlog.MaxCalories))
		require.NoError(t, err)
		require.True(t, added)
	}

	totals := tr.Totals()
	require.Equal(t, 2*foodlog.MaxCalories, totals.TotalCalories)
	require.Equal(t, 2*foodlog.MaxCalories-foodlog.DailyGoal, totals.OverBy)
	require.Positive(t, totals.PercentOfGoal)
}

func TestScenario_RealStore(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	logStore := store.NewLogStore(backend, "foodLog")

	tr, err := Open(ctx, Options{Persister: logStore, Clock: fixedClock})
	require.NoError(t, err)
	require.Equal(t, foodlog.StateEmpty, tr.State())

	oatmeal, added, err := tr.Add(ctx, "Oatmeal", "350")
	require.NoError(t, err)
	require.True(t, added)
	coffee, added, err := tr.Add(ctx, "Coffee", "50")
	require.NoError(t, err)
	require.True(t, added)

	entries := tr.Entries()
	require.Equal(t, []string{"Coffee", "Oatmeal"}, []string{entries[0].Name, entries[1].Name})
	require.Equal(t, 400, tr.Totals().TotalCalories)

	// A second tracker over the same store sees the same log
	reopened, err := Open(ctx, Options{Persister: logStore})
	require.NoError(t, err)
	require.Equal(t, entries, reopened.Entries())

	_, err = tr.Delete(ctx, oatmeal.ID)
	require.NoError(t, err)
	entries = tr.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "Coffee", entries[0].Name)
	require.Equal(t, 50, tr.Totals().TotalCalories)

	_, err = tr.Delete(ctx, coffee.ID)
	require.NoError(t, err)
	require.Equal(t, foodlog.StateEmpty, tr.State())

	_, found, err := logStore.Load(ctx)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 0, backend.Len())
}

func TestScenario_CorruptRecordRecoversOnNextMutation(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, "foodLog", []byte(`[{"id":"x","name":"Toast","calories":100,"timestamp":"yesterday"}]`)))
	logStore := store.NewLogStore(backend, "foodLog")

	tr, err := Open(ctx, Options{Persister: logStore})
	require.NoError(t, err)
	require.Equal(t, 0, tr.Len())

	_, _, err = tr.Add(ctx, "Toast", "100")
	require.NoError(t, err)

	entries, found, err := logStore.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, entries, 1)
}
