package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", time.Date(2025, 6, 2, 9, 0, 0, 0, loc), time.Date(2025, 6, 2, 23, 0, 0, 0, loc), 0},
		{"one day", time.Date(2025, 6, 2, 23, 0, 0, 0, loc), time.Date(2025, 6, 3, 1, 0, 0, 0, loc), 1},
		{"week apart", time.Date(2025, 6, 2, 0, 0, 0, 0, loc), time.Date(2025, 6, 9, 0, 0, 0, 0, loc), 7},
		{"negative", time.Date(2025, 6, 9, 0, 0, 0, 0, loc), time.Date(2025, 6, 2, 0, 0, 0, 0, loc), -7},
	}

	for _, tc := range cases {
		if got := DaysBetween(tc.start, tc.end); got != tc.want {
			t.Errorf("%s: DaysBetween = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	if got := DaysOverdue(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), now); got != 7 {
		t.Errorf("past due date: got %d, want 7", got)
	}
	if got := DaysOverdue(now, now); got != 0 {
		t.Errorf("due today: got %d, want 0", got)
	}
	if got := DaysOverdue(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), now); got != 0 {
		t.Errorf("future due date: got %d, want 0", got)
	}
}
