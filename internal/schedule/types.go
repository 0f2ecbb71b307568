package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule marks configuration validation failures. Malformed
// schedules are rejected at load time, before any resolution runs.
var ErrInvalidSchedule = fmt.Errorf("invalid schedule")

// ClockTime is a wall-clock time of day without a date.
type ClockTime struct {
	Hour   int
	Minute int
}

// On anchors the clock time to the given date in that date's location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

func (c ClockTime) minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid time %q (out of range)", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// ParseWeekday parses a weekday name ("wednesday", "Wed").
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayRule is one recurring cleaning window: a weekday, the 1-based
// ordinal occurrences of that weekday within a month, and a daily time window.
type WeekdayRule struct {
	Weekday  time.Weekday
	Ordinals []int
	Start    ClockTime
	End      ClockTime
}

// ListingSchedule is the full cleaning configuration for one listing.
// Rules[0] is the near side of the street (the side in front of the house),
// Rules[1] the far side. The guest message depends on this ordering.
type ListingSchedule struct {
	ListingID      string
	HostID         string
	Rules          [2]WeekdayRule
	AlertLeadHours float64
}

// Validate rejects malformed schedules. All failures wrap ErrInvalidSchedule.
func (s ListingSchedule) Validate() error {
	if s.ListingID == "" {
		return fmt.Errorf("%w: listing id required", ErrInvalidSchedule)
	}
	if s.AlertLeadHours <= 0 {
		return fmt.Errorf("%w: alert lead hours must be positive", ErrInvalidSchedule)
	}
	for i, r := range s.Rules {
		if len(r.Ordinals) == 0 {
			return fmt.Errorf("%w: rule %d has no ordinals", ErrInvalidSchedule, i)
		}
		for _, n := range r.Ordinals {
			if n < 1 {
				return fmt.Errorf("%w: rule %d ordinal %d must be >= 1", ErrInvalidSchedule, i, n)
			}
		}
		if r.Start.minutes() >= r.End.minutes() {
			return fmt.Errorf("%w: rule %d start %s must be before end %s", ErrInvalidSchedule, i, r.Start, r.End)
		}
	}
	return nil
}

// Occurrence is one concrete instance of a cleaning window, derived from
// Rules[RuleIndex]. Start and End share a date and carry the site zone.
type Occurrence struct {
	RuleIndex int
	Start     time.Time
	End       time.Time
}
