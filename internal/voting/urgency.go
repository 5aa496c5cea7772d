package voting

import (
	"fmt"
	"time"
)

// DaysLeft counts whole calendar days from now until the survey deadline.
// Both sides are truncated to start of day first, so the result is stable
// regardless of the time of evaluation: a deadline of today is 0, tomorrow
// is 1, yesterday is -1.
func DaysLeft(deadline, now time.Time) int {
	d := startOfDay(deadline)
	n := startOfDay(now)
	return int(d.Sub(n) / (24 * time.Hour))
}

// Overdue reports whether the deadline has passed.
func Overdue(deadline, now time.Time) bool {
	return DaysLeft(deadline, now) < 0
}

// UrgencyLabel renders the deadline countdown for display:
// "Due in 3d", "Due in 0d", "Overdue by 2d".
func UrgencyLabel(deadline, now time.Time) string {
	days := DaysLeft(deadline, now)
	if days < 0 {
		return fmt.Sprintf("Overdue by %dd", -days)
	}
	return fmt.Sprintf("Due in %dd", days)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
