package presenter

import (
	"fmt"
	"time"
)

// FormatTimeSince formats the time elapsed between t and now as a human-readable "X ago" string.
// Returns formats like "5 minutes ago", "2.5 hours ago", or "3 days ago".
func FormatTimeSince(t, now time.Time) string {
	duration := now.Sub(t)

	if duration < time.Hour {
		return fmt.Sprintf("%.0f minutes ago", duration.Minutes())
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%.1f hours ago", duration.Hours())
	} else {
		return fmt.Sprintf("%.0f days ago", duration.Hours()/24)
	}
}

// FormatTimeSinceCompact is the table-friendly form of FormatTimeSince: "5m ago", "2.5h ago", "3d ago".
func FormatTimeSinceCompact(t, now time.Time) string {
	duration := now.Sub(t)

	if duration < time.Hour {
		return fmt.Sprintf("%.0fm ago", duration.Minutes())
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%.1fh ago", duration.Hours())
	} else {
		return fmt.Sprintf("%.0fd ago", duration.Hours()/24)
	}
}
