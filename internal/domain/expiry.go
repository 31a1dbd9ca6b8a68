package domain

import "time"

// EffectiveExpiry computes the date an allocation's residency right lapses.
//
// Precedence:
//  1. an explicit end date always wins;
//  2. with a known admission session, the seat runs to January 1 of
//     (session start year + residencyYears), the cohort horizon;
//  3. if that horizon already precedes the start date (a late or manual
//     grant into an expired cohort), or no session is known, the seat runs
//     exactly one year from its start date;
//  4. with neither session nor start date the expiry is undetermined (nil)
//     and the allocation stays open-ended.
func EffectiveExpiry(endDate *time.Time, sessionStartYear int, startDate *time.Time, residencyYears int) *time.Time {
	if endDate != nil {
		return endDate
	}
	if sessionStartYear > 0 {
		cancel := time.Date(sessionStartYear+residencyYears, time.January, 1, 0, 0, 0, 0, time.UTC)
		if startDate != nil && cancel.Before(*startDate) {
			d := startDate.AddDate(1, 0, 0)
			return &d
		}
		return &cancel
	}
	if startDate != nil {
		d := startDate.AddDate(1, 0, 0)
		return &d
	}
	return nil
}

// AddMonthsClamped adds months to t, clamping the day of month to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysUntil returns the whole days from `from` to `to`, comparing calendar
// dates in UTC so partial days never shift the reminder ladder.
func DaysUntil(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
