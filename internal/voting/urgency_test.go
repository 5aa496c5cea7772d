package voting

import (
	"testing"
	"time"
)

func TestDaysLeft_Truncation(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"today_morning", time.Date(2024, 6, 15, 1, 0, 0, 0, time.UTC), 0},
		{"tomorrow", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), 1},
		{"yesterday", time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC), -1},
		{"next_week", time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysLeft(tc.deadline, now); got != tc.want {
				t.Fatalf("days=%d want %d", got, tc.want)
			}
		})
	}
}

func TestDaysLeft_StableAcrossTimeOfDay(t *testing.T) {
	deadline := time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC)
	early := time.Date(2024, 6, 15, 0, 1, 0, 0, time.UTC)
	late := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	if DaysLeft(deadline, early) != DaysLeft(deadline, late) {
		t.Fatalf("result depends on time of day")
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	if Overdue(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), now) {
		t.Fatalf("deadline today should not be overdue")
	}
	if !Overdue(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), now) {
		t.Fatalf("deadline yesterday should be overdue")
	}
}

func TestUrgencyLabel(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		deadline time.Time
		want     string
	}{
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), "Due in 0d"},
		{time.Date(2024, 6, 18, 0, 0, 0, 0, time.UTC), "Due in 3d"},
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), "Overdue by 1d"},
		{time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), "Overdue by 2d"},
	}
	for _, tc := range cases {
		if got := UrgencyLabel(tc.deadline, now); got != tc.want {
			t.Fatalf("label=%q want %q", got, tc.want)
		}
	}
}
