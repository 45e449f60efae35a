package console

import (
	"time"

	"github.com/xeonx/timeago"
)

// FormatTime renders t relative to now, e.g. "3 minutes ago"
func FormatTime(t time.Time) string {
	return timeago.English.Format(t)
}
