package foodlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/winterarc/internal/errors"
)

func TestComputeTotals_GoalArithmetic(t *testing.T) {
	tests := []struct {
		name      string
		calories  []int
		total     int
		remaining int
		overBy    int
		percent   int
	}{
		{"empty", nil, 0, 2200, 0, 0},
		{"under goal", []int{1000, 800}, 1800, 400, 0, 82},
		{"over goal", []int{2000, 500}, 2500, 0, 300, 114},
		{"exactly goal", []int{2200}, 2200, 0, 0, 100},
		{"rounds half up", []int{11}, 11, 2189, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]Entry, len(tt.calories))
			for i, c := range tt.calories {
				entries[i] = Entry{ID: string(rune('a' + i)), Name: "x", Calories: c}
			}

			got := ComputeTotals(entries, DailyGoal)
			if got.TotalCalories != tt.total {
				t.Errorf("TotalCalories = %d, want %d", got.TotalCalories, tt.total)
			}
			if got.Remaining != tt.remaining {
				t.Errorf("Remaining = %d, want %d", got.Remaining, tt.remaining)
			}
			if got.OverBy != tt.overBy {
				t.Errorf("OverBy = %d, want %d", got.OverBy, tt.overBy)
			}
			if got.PercentOfGoal != tt.percent {
				t.Errorf("PercentOfGoal = %d, want %d", got.PercentOfGoal, tt.percent)
			}
			if got.Goal != DailyGoal {
				t.Errorf("Goal = %d, want %d", got.Goal, DailyGoal)
			}
		})
	}
}

func TestComputeTotals_NonPositiveGoalFallsBack(t *testing.T) {
	got := ComputeTotals([]Entry{{ID: "a", Name: "x", Calories: 100}}, 0)
	require.Equal(t, DailyGoal, got.Goal)
	require.Equal(t, 2100, got.Remaining)
}

func TestTotals_ProgressWidth(t *testing.T) {
	require.Equal(t, 100, Totals{PercentOfGoal: 114}.ProgressWidth())
	require.Equal(t, 42, Totals{PercentOfGoal: 42}.ProgressWidth())
	require.True(t, Totals{TotalCalories: 2200, Goal: 2200}.OverGoal())
	require.False(t, Totals{TotalCalories: 2199, Goal: 2200}.OverGoal())
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name         string
		inName       string
		inCalories   string
		wantName     string
		wantCalories int
		wantField    string
	}{
		{name: "valid", inName: "Pizza", inCalories: "285", wantName: "Pizza", wantCalories: 285},
		{name: "trims name", inName: "  Oatmeal \t", inCalories: "350", wantName: "Oatmeal", wantCalories: 350},
		{name: "trims calories", inName: "Coffee", inCalories: " 50 ", wantName: "Coffee", wantCalories: 50},
		{name: "empty name", inName: "", inCalories: "100", wantField: "name"},
		{name: "whitespace name", inName: "   ", inCalories: "100", wantField: "name"},
		{name: "zero calories", inName: "Pizza", inCalories: "0", wantField: "calories"},
		{name: "negative calories", inName: "Pizza", inCalories: "-5", wantField: "calories"},
		{name: "non-numeric", inName: "Pizza", inCalories: "abc", wantField: "calories"},
		{name: "trailing garbage", inName: "Pizza", inCalories: "12abc", wantField: "calories"},
		{name: "decimal", inName: "Pizza", inCalories: "12.5", wantField: "calories"},
		{name: "empty calories", inName: "Pizza", inCalories: "", wantField: "calories"},
		{name: "at max", inName: "Feast", inCalories: "100000", wantName: "Feast", wantCalories: MaxCalories},
		{name: "above max", inName: "Feast", inCalories: "100001", wantField: "calories"},
		{name: "int64 max", inName: "Feast", inCalories: "9223372036854775807", wantField: "calories"},
		{name: "overflows int", inName: "Feast", inCalories: "99999999999999999999", wantField: "calories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, calories, err := ValidateInput(tt.inName, tt.inCalories)
			if tt.wantField != "" {
				require.Error(t, err)
				require.True(t, errors.Is(err, errors.ErrInvalidRequest))
				var aErr *errors.ArcError
				require.ErrorAs(t, err, &aErr)
				require.Equal(t, tt.wantField, aErr.Details["field"])
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantName, name)
			require.Equal(t, tt.wantCalories, calories)
		})
	}
}

func TestRelativeAge(t *testing.T) {
	created := time.Date(2025, time.January, 5, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"30 seconds", 30 * time.Second, "Just now"},
		{"future timestamp", -2 * time.Minute, "Just now"},
		{"exactly one minute", time.Minute, "1m ago"},
		{"5 minutes", 5 * time.Minute, "5m ago"},
		{"59 minutes 59 seconds", 59*time.Minute + 59*time.Second, "59m ago"},
		{"90 minutes", 90 * time.Minute, "1h ago"},
		{"23 hours", 23 * time.Hour, "23h ago"},
		{"2 days", 48 * time.Hour, "2d ago"},
		{"6 days 23 hours", 6*24*time.Hour + 23*time.Hour, "6d ago"},
		{"10 days", 10 * 24 * time.Hour, "Jan 5, 03:04 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeAge(created, created.Add(tt.elapsed))
			if got != tt.want {
				t.Errorf("RelativeAge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeAge_AbsoluteUsesReferenceLocation(t *testing.T) {
	created := time.Date(2025, time.March, 1, 23, 30, 0, 0, time.UTC)
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	now := created.Add(30 * 24 * time.Hour).In(plusTwo)

	require.Equal(t, "Mar 2, 01:30 AM", RelativeAge(created, now))
}

func TestCodec_RoundTrip(t *testing.T) {
	entries := []Entry{
		{ID: "01B", Name: "Coffee", Calories: 50, CreatedAt: time.Date(2025, 1, 5, 9, 30, 0, 123456789, time.UTC)},
		{ID: "01A", Name: "Oatmeal", Calories: 350, CreatedAt: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)},
	}

	data, err := Encode(entries)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestCodec_ReadsBrowserPayload(t *testing.T) {
	payload := `[{"id":"1736000000000","name":"Pizza","calories":285,"timestamp":"2025-01-04T14:13:20.000Z"}]`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Pizza", got[0].Name)
	require.Equal(t, 285, got[0].Calories)
	require.True(t, got[0].CreatedAt.Equal(time.Date(2025, 1, 4, 14, 13, 20, 0, time.UTC)))
}

func TestCodec_EmptyLog(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecode_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not json", "{not json"},
		{"object", `{"id":"a"}`},
		{"null", "null"},
		{"bad timestamp", `[{"id":"a","name":"x","calories":1,"timestamp":"yesterday"}]`},
		{"missing id", `[{"name":"x","calories":1,"timestamp":"2025-01-04T14:13:20Z"}]`},
		{"blank name", `[{"id":"a","name":"  ","calories":1,"timestamp":"2025-01-04T14:13:20Z"}]`},
		{"zero calories", `[{"id":"a","name":"x","calories":0,"timestamp":"2025-01-04T14:13:20Z"}]`},
		{"calories above max", `[{"id":"a","name":"x","calories":9223372036854775807,"timestamp":"2025-01-04T14:13:20Z"}]`},
		{"duplicate ids", `[{"id":"a","name":"x","calories":1,"timestamp":"2025-01-04T14:13:20Z"},{"id":"a","name":"y","calories":2,"timestamp":"2025-01-04T14:13:20Z"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
		})
	}
}

func TestStateOfAndFind(t *testing.T) {
	require.Equal(t, StateEmpty, StateOf(nil))

	entries := []Entry{{ID: "b"}, {ID: "a"}}
	require.Equal(t, StateNonEmpty, StateOf(entries))
	require.Equal(t, 1, Find(entries, "a"))
	require.Equal(t, -1, Find(entries, "z"))

	cloned := Clone(entries)
	cloned[0].ID = "changed"
	require.Equal(t, "b", entries[0].ID)
}

func TestEntryToExportRecord(t *testing.T) {
	created := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	rec := EntryToExportRecord(Entry{ID: "01A", Name: "Coffee", Calories: 50, CreatedAt: created})

	require.Equal(t, "01A", rec.ID)
	require.Equal(t, created.Unix(), rec.CreatedAt)
	require.Equal(t, "2025-01-05T09:30:00.000Z", rec.Timestamp)
}
