package timeutil

import (
	"testing"
	"time"
)

func TestRelativeTo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-3 * time.Second), "just now"},
		{"seconds ago", now.Add(-45 * time.Second), "45 seconds ago"},
		{"one minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"minutes ago", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "1 hour ago"},
		{"hours ago", now.Add(-5 * time.Hour), "5 hours ago"},
		{"one day", now.Add(-30 * time.Hour), "1 day ago"},
		{"days ago", now.Add(-72 * time.Hour), "3 days ago"},
		{"future", now.Add(2 * time.Hour), "in 2 hours"},
		{"near future", now.Add(5 * time.Second), "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTo(tt.t, now); got != tt.want {
				t.Errorf("RelativeTo() = %q, want %q", got, tt.want)
			}
		})
	}
}
