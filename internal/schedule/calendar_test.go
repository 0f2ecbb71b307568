package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteTZ(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestMatchingDatesInMonth_EveryMonthHas4or5(t *testing.T) {
	loc := siteTZ(t)

	for year := 2024; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			anchor := time.Date(year, month, 15, 12, 0, 0, 0, loc)
			for day := time.Sunday; day <= time.Saturday; day++ {
				dates := MatchingDatesInMonth(day, anchor)

				assert.GreaterOrEqual(t, len(dates), 4, "%s %d %s", month, year, day)
				assert.LessOrEqual(t, len(dates), 5, "%s %d %s", month, year, day)

				for i, d := range dates {
					assert.Equal(t, day, d.Weekday())
					assert.Equal(t, month, d.Month())
					assert.Equal(t, year, d.Year())
					if i > 0 {
						assert.True(t, dates[i-1].Before(d), "dates must ascend")
					}
				}
			}
		}
	}
}

func TestMatchingDatesInMonth_KnownMonth(t *testing.T) {
	loc := siteTZ(t)

	// April 2024 has Wednesdays on the 3rd, 10th, 17th and 24th.
	dates := MatchingDatesInMonth(time.Wednesday, time.Date(2024, time.April, 9, 12, 0, 0, 0, loc))
	require.Len(t, dates, 4)
	for i, want := range []int{3, 10, 17, 24} {
		assert.Equal(t, want, dates[i].Day())
	}
}

func TestOrdinalOf_RoundTrip(t *testing.T) {
	loc := siteTZ(t)

	// Every day of 2024: the ordinal indexes back to the same date.
	for d := time.Date(2024, time.January, 1, 0, 0, 0, 0, loc); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		n, err := OrdinalOf(d)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)

		dates := MatchingDatesInMonth(d.Weekday(), d)
		require.LessOrEqual(t, n, len(dates))
		assert.Equal(t, d.Day(), dates[n-1].Day())
		assert.Equal(t, d.Month(), dates[n-1].Month())
	}
}

func TestOrdinalOf_IgnoresTimeOfDay(t *testing.T) {
	loc := siteTZ(t)

	n, err := OrdinalOf(time.Date(2024, time.April, 10, 23, 59, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
