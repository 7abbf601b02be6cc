package timeutil

import (
	"fmt"
	"time"
)

// Relative formats t relative to now, e.g. "5 minutes ago" or "in 2 hours".
func Relative(t time.Time) string {
	return RelativeTo(t, time.Now())
}

// RelativeTo formats t relative to the reference time now.
func RelativeTo(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	phrase := span(d)
	if phrase == "just now" {
		return phrase
	}
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func span(d time.Duration) string {
	switch {
	case d < 10*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	case d < 2*time.Minute:
		return "1 minute"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d < 2*time.Hour:
		return "1 hour"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	case d < 48*time.Hour:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	}
}
