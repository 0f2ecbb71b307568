package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sweepalert/internal/booking"
	"github.com/example/sweepalert/internal/schedule"
)

type fakeLookup struct {
	reservations []booking.Reservation
	err          error

	calls      int
	gotFrom    time.Time
	gotTo      time.Time
	gotListing string
}

func (f *fakeLookup) Bookings(ctx context.Context, from, to time.Time, listingID string) ([]booking.Reservation, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotListing = from, to, listingID
	return f.reservations, f.err
}

func nyLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// Wednesdays {2,4} / Thursdays {2,4}, 08:30-11:30, 16h lead. The 2nd
// Wednesday of April 2024 is the 10th.
func testSchedule() schedule.ListingSchedule {
	return schedule.ListingSchedule{
		ListingID:      "listing-1",
		HostID:         "host-1",
		AlertLeadHours: 16,
		Rules: [2]schedule.WeekdayRule{
			{Weekday: time.Wednesday, Ordinals: []int{2, 4}, Start: schedule.ClockTime{Hour: 8, Minute: 30}, End: schedule.ClockTime{Hour: 11, Minute: 30}},
			{Weekday: time.Thursday, Ordinals: []int{2, 4}, Start: schedule.ClockTime{Hour: 8, Minute: 30}, End: schedule.ClockTime{Hour: 11, Minute: 30}},
		},
	}
}

func TestDecide_NoOccurrenceSkipsLookup(t *testing.T) {
	loc := nyLoc(t)
	lookup := &fakeLookup{}
	d := Decider{Lookup: lookup}

	// 20.5 hours out: beyond the lead.
	out, err := d.Decide(context.Background(), testSchedule(), time.Date(2024, time.April, 9, 12, 0, 0, 0, loc))
	require.NoError(t, err)

	assert.Equal(t, NoOccurrenceImminent, out.Kind)
	assert.NotEmpty(t, out.Candidates)
	assert.Zero(t, lookup.calls, "no lookup without an imminent occurrence")
	assert.Contains(t, out.Reason(), "no alert needed")
}

func TestDecide_SendAlert(t *testing.T) {
	loc := nyLoc(t)
	r := booking.Reservation{
		UID:        "b1",
		ListingUID: "listing-1",
		GuestUID:   "g1",
		Checkin:    time.Date(2024, time.April, 9, 15, 0, 0, 0, loc),
		Checkout:   time.Date(2024, time.April, 11, 10, 0, 0, 0, loc),
	}
	lookup := &fakeLookup{reservations: []booking.Reservation{r}}
	d := Decider{Lookup: lookup}

	now := time.Date(2024, time.April, 10, 0, 0, 0, 0, loc)
	out, err := d.Decide(context.Background(), testSchedule(), now)
	require.NoError(t, err)

	require.Equal(t, SendAlert, out.Kind)
	assert.Equal(t, r, out.Reservation)
	assert.Equal(t, time.Date(2024, time.April, 10, 8, 30, 0, 0, loc), out.Occurrence.Start)

	// Lookup range widens to the start of the occurrence day.
	assert.Equal(t, time.Date(2024, time.April, 10, 0, 0, 0, 0, loc), lookup.gotFrom)
	assert.Equal(t, time.Date(2024, time.April, 10, 11, 30, 0, 0, loc), lookup.gotTo)
	assert.Equal(t, "listing-1", lookup.gotListing)

	assert.Contains(t, out.Message, "Wednesday, April 10")
	assert.Contains(t, out.Message, "8:30 AM")
	assert.Contains(t, out.Message, "11:30 AM")
}

func TestDecide_NoActiveBooking(t *testing.T) {
	loc := nyLoc(t)
	// Checks in after the occurrence starts: not active.
	lookup := &fakeLookup{reservations: []booking.Reservation{{
		UID:        "b1",
		ListingUID: "listing-1",
		Checkin:    time.Date(2024, time.April, 10, 9, 0, 0, 0, loc),
		Checkout:   time.Date(2024, time.April, 12, 10, 0, 0, 0, loc),
	}}}
	d := Decider{Lookup: lookup}

	out, err := d.Decide(context.Background(), testSchedule(), time.Date(2024, time.April, 10, 0, 0, 0, 0, loc))
	require.NoError(t, err)

	assert.Equal(t, NoActiveBooking, out.Kind)
	assert.Equal(t, 10, out.Occurrence.Start.Day())
	assert.Contains(t, out.Reason(), "no active booking")
}

func TestDecide_LookupFailureIsUpstream(t *testing.T) {
	loc := nyLoc(t)
	lookup := &fakeLookup{err: errors.New("igms: status=503")}
	d := Decider{Lookup: lookup}

	_, err := d.Decide(context.Background(), testSchedule(), time.Date(2024, time.April, 10, 0, 0, 0, 0, loc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestDecide_IdempotentForFixedNow(t *testing.T) {
	loc := nyLoc(t)
	r := booking.Reservation{
		UID: "b1", ListingUID: "listing-1", GuestUID: "g1",
		Checkin:  time.Date(2024, time.April, 9, 15, 0, 0, 0, loc),
		Checkout: time.Date(2024, time.April, 11, 10, 0, 0, 0, loc),
	}
	d := Decider{Lookup: &fakeLookup{reservations: []booking.Reservation{r}}}

	now := time.Date(2024, time.April, 10, 0, 0, 0, 0, loc)
	out1, err1 := d.Decide(context.Background(), testSchedule(), now)
	out2, err2 := d.Decide(context.Background(), testSchedule(), now)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, out1, out2)
}
