package ops

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	Now time.Time // zero means tracker clock
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Markdown string         `json:"markdown"`
	Totals   foodlog.Totals `json:"totals"`
	Count    int            `json:"count"`
}

// Report renders the log as a markdown document: a goal summary followed
// by a table of entries, newest first.
func Report(tr *tracker.Tracker, input ReportInput) *ReportOutput {
	now := input.Now
	if now.IsZero() {
		now = tr.Now()
	}
	entries, totals := tr.Snapshot()

	var b strings.Builder
	b.WriteString("# Food log\n\n")
	fmt.Fprintf(&b, "**%d / %d kcal** (%d%% of goal)\n\n", totals.TotalCalories, totals.Goal, totals.PercentOfGoal)
	if totals.OverBy > 0 {
		fmt.Fprintf(&b, "Over goal by %d kcal.\n\n", totals.OverBy)
	} else {
		fmt.Fprintf(&b, "%d kcal remaining.\n\n", totals.Remaining)
	}

	if len(entries) == 0 {
		b.WriteString("_No entries yet._\n")
	} else {
		b.WriteString("| Food | Calories | Logged |\n")
		b.WriteString("|---|---:|---|\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escapeCell(e.Name), e.Calories, foodlog.RelativeAge(e.CreatedAt, now))
		}
	}

	return &ReportOutput{
		Markdown: b.String(),
		Totals:   totals,
		Count:    len(entries),
	}
}

// escapeCell keeps user text from breaking the table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
