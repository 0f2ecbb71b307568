package alert

import (
	"fmt"

	"github.com/example/sweepalert/internal/schedule"
)

const (
	dayFormat  = "Monday, January 2"
	timeFormat = "3:04 PM"
)

// GuestMessage renders the guest-facing notification for an occurrence.
// Rule 0 is the side of the street in front of the house; the message tells
// the guest which side is cleaned on which weekday.
func GuestMessage(occ schedule.Occurrence, s schedule.ListingSchedule) string {
	return fmt.Sprintf(
		"Hi! This is an automated message to alert you of a scheduled street cleaning on %s from %s to %s. "+
			"This will be happening on at least one side of ALL the streets in the neighborhood during this window of time. "+
			"Generally each side of the street will be cleaned on different days. "+
			"If you are parked on the street in front of the house, your side of the street is cleaned on %s and the other side is cleaned on %s. "+
			"Please move your vehicle if needed. Thank you!",
		occ.Start.Format(dayFormat),
		occ.Start.Format(timeFormat),
		occ.End.Format(timeFormat),
		s.Rules[0].Weekday,
		s.Rules[1].Weekday,
	)
}
