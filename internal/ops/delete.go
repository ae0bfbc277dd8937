package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
	"github.com/hpungsan/winterarc/internal/tracker"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted   bool           `json:"deleted"`
	ID        string         `json:"id"`
	Totals    foodlog.Totals `json:"totals"`
	State     foodlog.State  `json:"state"`
	Persisted bool           `json:"persisted"`
	Warning   string         `json:"warning,omitempty"`
}

// Delete removes an entry by id. An unknown id is not an error: the output
// reports Deleted=false and the log is unchanged.
func Delete(ctx context.Context, tr *tracker.Tracker, input DeleteInput) (*DeleteOutput, error) {
	if err := checkCancelled(ctx, "delete"); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidField("id", "id is required")
	}

	deleted, err := tr.Delete(ctx, id)

	return &DeleteOutput{
		Deleted:   deleted,
		ID:        id,
		Totals:    tr.Totals(),
		State:     tr.State(),
		Persisted: err == nil,
		Warning:   persistWarning(err),
	}, nil
}
