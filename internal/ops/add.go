package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Name     string // required, trimmed
	Calories string // required, whole number > 0
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Added     bool           `json:"added"`
	Entry     EntryView      `json:"entry"`
	Totals    foodlog.Totals `json:"totals"`
	Persisted bool           `json:"persisted"`
	Warning   string         `json:"warning,omitempty"`
}

// Add logs a new food entry.
//
// Unlike tracker.Add, invalid input is reported as INVALID_REQUEST naming the
// offending field so callers can show feedback. The log is unchanged in that
// case. A failed write still returns the entry, with Persisted=false.
func Add(ctx context.Context, tr *tracker.Tracker, input AddInput) (*AddOutput, error) {
	if err := checkCancelled(ctx, "add"); err != nil {
		return nil, err
	}
	if _, _, err := foodlog.ValidateInput(input.Name, input.Calories); err != nil {
		return nil, err
	}

	entry, added, err := tr.Add(ctx, input.Name, input.Calories)
	if !added {
		if err != nil {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("entry was not added"))
	}

	return &AddOutput{
		Added:     true,
		Entry:     NewEntryView(entry, tr.Now()),
		Totals:    tr.Totals(),
		Persisted: err == nil,
		Warning:   persistWarning(err),
	}, nil
}
