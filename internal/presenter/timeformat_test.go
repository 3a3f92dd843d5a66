package presenter

import (
	"testing"
	"time"
)

func TestFormatTimeSince(t *testing.T) {
	now := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ago     time.Duration
		verbose string
		compact string
	}{
		{"minutes", 5 * time.Minute, "5 minutes ago", "5m ago"},
		{"hours", 150 * time.Minute, "2.5 hours ago", "2.5h ago"},
		{"days", 72 * time.Hour, "3 days ago", "3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeSince(now.Add(-tt.ago), now); got != tt.verbose {
				t.Errorf("FormatTimeSince() = %q, want %q", got, tt.verbose)
			}
			if got := FormatTimeSinceCompact(now.Add(-tt.ago), now); got != tt.compact {
				t.Errorf("FormatTimeSinceCompact() = %q, want %q", got, tt.compact)
			}
		})
	}
}
