package core

import "time"

// DayBounds returns the half-open interval [start, end) covering the
// local calendar day that contains t. Calendar arithmetic is used, not
// a fixed 24h step, so the bounds stay aligned across daylight-saving
// transitions.
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}

// MonthYearOf returns the (month 1-12, year) bucket containing t.
func MonthYearOf(t time.Time) (month, year int) {
	return int(t.Month()), t.Year()
}

// TrailingDays returns the starts of the n calendar days ending at and
// including anchor's day, oldest first.
func TrailingDays(n int, anchor time.Time) []time.Time {
	if n <= 0 {
		return nil
	}
	last, _ := DayBounds(anchor)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = last.AddDate(0, 0, i-n+1)
	}
	return days
}
