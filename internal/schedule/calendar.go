package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrCalendarInconsistent means ordinal resolution could not find a date's
// own weekday among that month's matches. Unreachable with correct calendar
// math; surfaced as an internal error rather than recovered.
var ErrCalendarInconsistent = errors.New("calendar ordinal resolution inconsistent")

// MatchingDatesInMonth walks the days of anchor's month in ascending order
// and returns every date (at midnight, anchor's location) falling on weekday.
// A month always yields 4 or 5 matches.
func MatchingDatesInMonth(weekday time.Weekday, anchor time.Time) []time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())

	var matches []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			matches = append(matches, d)
		}
	}
	return matches
}

// OrdinalOf returns date's 1-based position among the same-weekday dates of
// its month (e.g. 2 for the second Wednesday).
func OrdinalOf(date time.Time) (int, error) {
	y, m, d := date.Date()
	for i, match := range MatchingDatesInMonth(date.Weekday(), date) {
		my, mm, md := match.Date()
		if my == y && mm == m && md == d {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s not among %s dates of %s %d",
		ErrCalendarInconsistent, date.Format("2006-01-02"), date.Weekday(), m, y)
}
