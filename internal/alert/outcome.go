package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/sweepalert/internal/booking"
	"github.com/example/sweepalert/internal/schedule"
)

// OutcomeKind tags the result of one resolution.
type OutcomeKind int

const (
	// NoOccurrenceImminent: nothing inside the alert window right now.
	NoOccurrenceImminent OutcomeKind = iota
	// NoActiveBooking: an occurrence is imminent but no guest stay covers it.
	NoActiveBooking
	// SendAlert: an occurrence is imminent and a guest should be notified.
	SendAlert
)

// Outcome is the tagged result of a resolution. The no-action kinds are
// ordinary successful values carrying a reason, not errors; only genuine
// failures (upstream outages, internal inconsistencies) travel the error
// channel.
type Outcome struct {
	Kind OutcomeKind

	// Candidates is set for NoOccurrenceImminent: every evaluated
	// rule-and-ordinal slot, with absent markers for ordinals the month
	// does not have.
	Candidates []schedule.Candidate

	// Occurrence is set for NoActiveBooking and SendAlert.
	Occurrence schedule.Occurrence

	// Reservation and Message are set for SendAlert.
	Reservation booking.Reservation
	Message     string
}

// Reason is a short human-readable explanation of the outcome, used in
// trigger responses and logs.
func (o Outcome) Reason() string {
	switch o.Kind {
	case NoOccurrenceImminent:
		var starts []string
		for _, c := range o.Candidates {
			if c.Start == nil {
				starts = append(starts, "absent")
				continue
			}
			starts = append(starts, c.Start.Format(time.RFC3339))
		}
		return fmt.Sprintf("no alert needed for: [%s]", strings.Join(starts, ", "))
	case NoActiveBooking:
		return fmt.Sprintf("no active booking for street cleaning: %s", o.Occurrence.Start.Format(time.RFC3339))
	case SendAlert:
		return fmt.Sprintf("street cleaning alert due: %s", o.Occurrence.Start.Format(time.RFC3339))
	default:
		return "unknown outcome"
	}
}
