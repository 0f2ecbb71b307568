// Package alert composes the occurrence resolver and the booking matcher
// into a single alert decision, with I/O collaborators passed in as explicit
// capabilities so tests can substitute them.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/sweepalert/internal/booking"
	"github.com/example/sweepalert/internal/schedule"
)

// ErrUpstreamUnavailable marks a booking-provider or notification failure.
// It is reported upward untouched; retry policy belongs to the caller.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ReservationLookup queries the booking provider for reservations touching
// the given date range for one listing.
type ReservationLookup interface {
	Bookings(ctx context.Context, from, to time.Time, listingID string) ([]booking.Reservation, error)
}

// NotificationSend dispatches a guest-facing message for a reservation.
type NotificationSend interface {
	MessageGuest(ctx context.Context, r booking.Reservation, message string) error
}

// Decider runs one full resolution: schedule engine, reservation lookup,
// booking match, message rendering.
type Decider struct {
	Lookup ReservationLookup
}

// Decide resolves the imminent occurrence for the schedule at now and, when
// one exists, matches it against the provider's reservations. The lookup
// range starts at midnight of the occurrence date because the provider's
// exact-time filtering is unreliable.
func (d *Decider) Decide(ctx context.Context, s schedule.ListingSchedule, now time.Time) (Outcome, error) {
	occ, candidates, ok := schedule.ResolveImminentOccurrence(s, now)
	if !ok {
		return Outcome{Kind: NoOccurrenceImminent, Candidates: candidates}, nil
	}

	from := startOfDay(occ.Start)
	reservations, err := d.Lookup.Bookings(ctx, from, occ.End, s.ListingID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: bookings lookup: %w", ErrUpstreamUnavailable, err)
	}

	r, matched := booking.FindActiveReservation(occ, reservations, s.ListingID)
	if !matched {
		return Outcome{Kind: NoActiveBooking, Occurrence: occ}, nil
	}

	return Outcome{
		Kind:        SendAlert,
		Occurrence:  occ,
		Reservation: r,
		Message:     GuestMessage(occ, s),
	}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
