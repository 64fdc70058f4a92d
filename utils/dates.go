// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// DaysOverdue returns how many full days an invoice due date is in the past,
// 0 if it is today or in the future.
func DaysOverdue(due time.Time, now time.Time) int {
	days := DaysBetween(due, now)
	if days < 0 {
		return 0
	}
	return days
}
