package ops

import (
	"time"

	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Now    time.Time // reference time for age labels; zero means tracker clock
	Limit  int       // default: 50, max: 500
	Offset int       // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []EntryView    `json:"items"`
	Totals     foodlog.Totals `json:"totals"`
	State      foodlog.State  `json:"state"`
	Pagination Pagination     `json:"pagination"`
	Sort       string         `json:"sort"`
}

// List returns a page of entries (newest first) with the totals of the
// whole log.
func List(tr *tracker.Tracker, input ListInput) *ListOutput {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	now := input.Now
	if now.IsZero() {
		now = tr.Now()
	}

	entries, totals := tr.Snapshot()
	total := len(entries)

	start := min(offset, total)
	end := min(start+limit, total)
	items := make([]EntryView, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, NewEntryView(e, now))
	}

	return &ListOutput{
		Items:  items,
		Totals: totals,
		State:  foodlog.StateOf(entries),
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
		Sort: "newest_first",
	}
}
