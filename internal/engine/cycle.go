package engine

import "time"

// maxCycleIterations bounds cycle counting at 50 years so that a corrupted
// stored timestamp can never loop unbounded.
const maxCycleIterations = 600

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonthClamped advances t by one calendar month, keeping the same
// day-of-month. When the source day does not exist in the target month the
// day clamps to that month's last day: Jan 31 + 1 month = Feb 28 (or Feb 29
// in a leap year).
func AddMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	if last := lastDayOfMonth(year, month+1); day > last {
		day = last
	}
	return time.Date(year, month+1, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CountCompletedMonthlyCycles counts how many whole calendar-month boundaries
// have elapsed between from and now, comparing at day granularity. A marker
// landing exactly on today counts as a completed cycle; one day earlier does
// not. Never returns a negative count.
func CountCompletedMonthlyCycles(from, now time.Time) int {
	today := startOfDay(now)
	marker := startOfDay(from)

	count := 0
	for i := 0; i < maxCycleIterations; i++ {
		next := AddMonthClamped(marker)
		if next.After(today) {
			break
		}
		marker = next
		count++
	}
	return count
}
