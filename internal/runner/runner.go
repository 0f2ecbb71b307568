// Package runner orchestrates one alert resolution per listing: host token,
// decision, idempotency check, guest notification, record. Both the HTTP
// trigger and the cron scheduler go through it.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/example/sweepalert/internal/alert"
	"github.com/example/sweepalert/internal/db"
	"github.com/example/sweepalert/internal/schedule"
)

// Provider is the booking-provider surface the runner needs: reservation
// lookup plus guest messaging.
type Provider interface {
	alert.ReservationLookup
	alert.NotificationSend
}

// HostTokens resolves a host's provider access token (hosts.Repo in
// production).
type HostTokens interface {
	Token(ctx context.Context, hostUID string) (string, error)
}

// AlertLog is the idempotency collaborator (alertlog.Repo in production).
type AlertLog interface {
	WasSent(ctx context.Context, listingUID string, occurrenceStart time.Time) (bool, error)
	Record(ctx context.Context, listingUID string, occurrenceStart time.Time, reservationUID, guestUID string) error
}

// Result is the outcome of one listing's resolution.
type Result struct {
	ListingID string
	Outcome   alert.Outcome

	// Deduped means an imminent occurrence had already been alerted and the
	// guest was not messaged again.
	Deduped bool
	// Notified means the guest message went out on this run.
	Notified bool
}

// Status is a short machine-ish status for responses and logs.
func (r Result) Status() string {
	switch {
	case r.Notified:
		return "alert_sent"
	case r.Deduped:
		return "already_alerted"
	case r.Outcome.Kind == alert.NoActiveBooking:
		return "no_active_booking"
	default:
		return "no_occurrence"
	}
}

type Runner struct {
	Listings []schedule.ListingSchedule
	Hosts    HostTokens
	Alerts   AlertLog
	Log      hclog.Logger

	// FallbackToken is used when a listing's host has no stored account.
	FallbackToken string

	// NewProvider builds a provider client for a host access token.
	NewProvider func(accessToken string) Provider
}

// RunAll resolves every configured listing at now. Per-listing failures are
// reported in the error slot of the result list; one listing failing does not
// stop the others.
func (r *Runner) RunAll(ctx context.Context, now time.Time) ([]Result, []error) {
	var results []Result
	var errs []error
	for _, s := range r.Listings {
		res, err := r.RunListing(ctx, s, now)
		if err != nil {
			r.Log.Error("listing resolution failed", "listing", s.ListingID, "err", err)
			errs = append(errs, fmt.Errorf("listing %s: %w", s.ListingID, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// RunListing resolves one listing at now and, when an alert is due and not
// yet recorded, messages the guest and records the send.
func (r *Runner) RunListing(ctx context.Context, s schedule.ListingSchedule, now time.Time) (Result, error) {
	token, err := r.hostToken(ctx, s.HostID)
	if err != nil {
		return Result{}, err
	}
	provider := r.NewProvider(token)

	decider := alert.Decider{Lookup: provider}
	out, err := decider.Decide(ctx, s, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{ListingID: s.ListingID, Outcome: out}
	if out.Kind != alert.SendAlert {
		r.Log.Info("no action needed", "listing", s.ListingID, "reason", out.Reason())
		return res, nil
	}

	sent, err := r.Alerts.WasSent(ctx, s.ListingID, out.Occurrence.Start)
	if err != nil {
		return Result{}, fmt.Errorf("alert log: %w", err)
	}
	if sent {
		r.Log.Info("alert already sent for occurrence",
			"listing", s.ListingID, "start", out.Occurrence.Start)
		res.Deduped = true
		return res, nil
	}

	if err := provider.MessageGuest(ctx, out.Reservation, out.Message); err != nil {
		return Result{}, fmt.Errorf("%w: message guest: %w", alert.ErrUpstreamUnavailable, err)
	}
	if err := r.Alerts.Record(ctx, s.ListingID, out.Occurrence.Start, out.Reservation.UID, out.Reservation.GuestUID); err != nil {
		return Result{}, fmt.Errorf("alert log: %w", err)
	}

	r.Log.Info("sent street cleaning alert",
		"listing", s.ListingID,
		"guest", out.Reservation.GuestUID,
		"start", out.Occurrence.Start)
	res.Notified = true
	return res, nil
}

func (r *Runner) hostToken(ctx context.Context, hostID string) (string, error) {
	token, err := r.Hosts.Token(ctx, hostID)
	if err == nil {
		return token, nil
	}
	if !db.IsNotFound(err) {
		return "", fmt.Errorf("host token: %w", err)
	}
	if r.FallbackToken == "" {
		return "", fmt.Errorf("no access token for host %s", hostID)
	}
	return r.FallbackToken, nil
}
