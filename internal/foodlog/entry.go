package foodlog

import "time"

// DailyGoal is the default daily calorie target.
const DailyGoal = 2200

// MaxCalories caps a single entry so log totals cannot overflow.
const MaxCalories = 100000

// Entry is one logged food item.
type Entry struct {
	// ID is a ULID assigned at creation; never reused after deletion
	ID string `json:"id"`

	// Name is the trimmed, non-empty label
	Name string `json:"name"`

	// Calories is always > 0
	Calories int `json:"calories"`

	// CreatedAt is captured at creation (UTC) and never changes
	CreatedAt time.Time `json:"created_at"`
}

// State is the observable state of a food log.
type State string

const (
	StateEmpty    State = "empty"
	StateNonEmpty State = "nonempty"
)

// StateOf reports whether entries is empty or not.
func StateOf(entries []Entry) State {
	if len(entries) == 0 {
		return StateEmpty
	}
	return StateNonEmpty
}

// Find returns the index of the entry with the given id, or -1.
func Find(entries []Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of entries that shares no backing array.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
