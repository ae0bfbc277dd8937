// Package ops implements the food log operations shared by the CLI, the web
// UI and the MCP server. Each operation takes an Input struct and returns an
// Output struct with JSON tags, or a typed error from internal/errors.
package ops

import (
	"context"
	"time"

	"github.com/hpungsan/winterarc/internal/errors"
	"github.com/hpungsan/winterarc/internal/foodlog"
)

// Pagination limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// EntryView is an entry as presented to callers.
type EntryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Calories  int    `json:"calories"`
	CreatedAt int64  `json:"created_at"`
	Timestamp string `json:"timestamp"`
	Age       string `json:"age"`
}

// NewEntryView builds the presented form of e relative to now.
func NewEntryView(e foodlog.Entry, now time.Time) EntryView {
	return EntryView{
		ID:        e.ID,
		Name:      e.Name,
		Calories:  e.Calories,
		CreatedAt: e.CreatedAt.Unix(),
		Timestamp: e.CreatedAt.UTC().Format(time.RFC3339),
		Age:       foodlog.RelativeAge(e.CreatedAt, now),
	}
}

// checkCancelled returns a CANCELLED error if ctx is already done.
func checkCancelled(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}

// persistWarning describes a failed write for outputs that still succeed.
func persistWarning(err error) string {
	if err == nil {
		return ""
	}
	return "change kept in memory but not saved: " + err.Error()
}
