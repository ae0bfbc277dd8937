package foodlog

import "math"

// Totals are the goal metrics derived from the current entries.
// They are never stored; callers recompute them on every read.
type Totals struct {
	TotalCalories int `json:"total_calories"`
	Goal          int `json:"goal"`
	Remaining     int `json:"remaining"`
	OverBy        int `json:"over_by"`
	PercentOfGoal int `json:"percent_of_goal"`
}

// ComputeTotals sums calories over entries and derives goal metrics.
// A non-positive goal falls back to DailyGoal.
func ComputeTotals(entries []Entry, goal int) Totals {
	if goal <= 0 {
		goal = DailyGoal
	}

	total := 0
	for _, e := range entries {
		total += e.Calories
	}

	return Totals{
		TotalCalories: total,
		Goal:          goal,
		Remaining:     max(0, goal-total),
		OverBy:        max(0, total-goal),
		PercentOfGoal: int(math.Round(float64(total) / float64(goal) * 100)),
	}
}

// OverGoal reports whether the total has reached or passed the goal.
func (t Totals) OverGoal() bool {
	return t.TotalCalories >= t.Goal
}

// ProgressWidth is PercentOfGoal clamped to [0, 100] for progress bars.
func (t Totals) ProgressWidth() int {
	return min(100, max(0, t.PercentOfGoal))
}
