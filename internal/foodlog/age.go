package foodlog

import (
	"fmt"
	"time"
)

// AbsoluteLayout is used for entries older than a week, e.g. "Jan 5, 03:04 PM".
const AbsoluteLayout = "Jan 2, 03:04 PM"

// RelativeAge formats the time elapsed between createdAt and now.
// It never reads the wall clock; now is always supplied by the caller.
// Future timestamps count as "Just now".
func RelativeAge(createdAt, now time.Time) string {
	elapsed := now.Sub(createdAt)
	minutes := int64(elapsed / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}

	return createdAt.In(now.Location()).Format(AbsoluteLayout)
}
