// Package alertlog records sent alerts keyed by (listing, occurrence start).
// The resolver core is stateless; this collaborator is what keeps repeated
// triggers inside the same lead window from re-messaging the guest.
package alertlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/sweepalert/internal/db"
)

type Entry struct {
	ID              uuid.UUID
	ListingUID      string
	OccurrenceStart time.Time
	ReservationUID  string
	GuestUID        string
	SentAt          time.Time
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

// WasSent reports whether an alert for this occurrence was already recorded.
func (r *Repo) WasSent(ctx context.Context, listingUID string, occurrenceStart time.Time) (bool, error) {
	var sent bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM alert_log WHERE listing_uid=$1 AND occurrence_start=$2)`,
		listingUID, occurrenceStart).Scan(&sent)
	return sent, err
}

// Record stores a sent alert. The unique key on (listing_uid,
// occurrence_start) makes concurrent double-sends a constraint violation
// rather than a duplicate row.
func (r *Repo) Record(ctx context.Context, listingUID string, occurrenceStart time.Time, reservationUID, guestUID string) error {
	return r.db.Exec(ctx, `
INSERT INTO alert_log(id, listing_uid, occurrence_start, reservation_uid, guest_uid)
VALUES ($1,$2,$3,$4,$5)`,
		uuid.New(), listingUID, occurrenceStart, reservationUID, guestUID)
}

// Recent returns the most recent entries for the dashboard.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, listing_uid, occurrence_start, reservation_uid, guest_uid, sent_at
FROM alert_log
ORDER BY sent_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ListingUID, &e.OccurrenceStart, &e.ReservationUID, &e.GuestUID, &e.SentAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
