// Package booking holds the reservation model and the matching policy that
// decides which guest stay is active during a cleaning occurrence.
package booking

import (
	"sort"
	"time"

	"github.com/example/sweepalert/internal/schedule"
)

// Reservation is a guest stay as reported by the booking provider. Read-only
// and ephemeral; fetched fresh on every resolution.
type Reservation struct {
	UID        string
	ListingUID string
	GuestUID   string
	Checkin    time.Time
	Checkout   time.Time
}

// FindActiveReservation selects the reservation considered active for the
// occurrence: checkin strictly before the occurrence start and checkout
// strictly after it. The comparison deliberately uses only the occurrence
// start, not the full window; a stay that ends mid-window still matches.
//
// Providers return reservations in no reliable order, so candidates are
// sorted by checkin ascending before matching to keep the result stable.
func FindActiveReservation(occ schedule.Occurrence, reservations []Reservation, listingID string) (Reservation, bool) {
	var candidates []Reservation
	for _, r := range reservations {
		if r.ListingUID == listingID {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Checkin.Before(candidates[j].Checkin)
	})

	for _, r := range candidates {
		checkinBefore := occ.Start.Sub(r.Checkin) > 0
		checkoutAfter := r.Checkout.Sub(occ.Start) > 0
		if checkinBefore && checkoutAfter {
			return r, true
		}
	}
	return Reservation{}, false
}
