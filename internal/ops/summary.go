package ops

import (
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// SummaryOutput contains the result of the Summary operation.
type SummaryOutput struct {
	foodlog.Totals
	Count    int           `json:"count"`
	State    foodlog.State `json:"state"`
	OverGoal bool          `json:"over_goal"`
}

// Summary returns the goal metrics of the current log.
func Summary(tr *tracker.Tracker) *SummaryOutput {
	entries, totals := tr.Snapshot()
	return &SummaryOutput{
		Totals:   totals,
		Count:    len(entries),
		State:    foodlog.StateOf(entries),
		OverGoal: totals.OverGoal(),
	}
}
