package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sweepalert/internal/auth"
	"github.com/example/sweepalert/internal/booking"
	"github.com/example/sweepalert/internal/runner"
	"github.com/example/sweepalert/internal/schedule"
)

type stubProvider struct {
	reservations []booking.Reservation
	messaged     int
}

func (p *stubProvider) Bookings(ctx context.Context, from, to time.Time, listingID string) ([]booking.Reservation, error) {
	return p.reservations, nil
}

func (p *stubProvider) MessageGuest(ctx context.Context, r booking.Reservation, message string) error {
	p.messaged++
	return nil
}

type stubHosts struct{}

func (stubHosts) Token(ctx context.Context, hostUID string) (string, error) {
	return "tok", nil
}

type stubAlertLog struct{ sent bool }

func (s *stubAlertLog) WasSent(ctx context.Context, listingUID string, start time.Time) (bool, error) {
	return s.sent, nil
}

func (s *stubAlertLog) Record(ctx context.Context, listingUID string, start time.Time, reservationUID, guestUID string) error {
	s.sent = true
	return nil
}

func newTestServer(t *testing.T, provider *stubProvider) *Server {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// The handlers resolve against the real clock, so use a schedule with an
	// occurrence late today: today's weekday, every ordinal, 23:58-23:59.
	rule := schedule.WeekdayRule{
		Weekday:  time.Now().In(loc).Weekday(),
		Ordinals: []int{1, 2, 3, 4, 5},
		Start:    schedule.ClockTime{Hour: 23, Minute: 58},
		End:      schedule.ClockTime{Hour: 23, Minute: 59},
	}
	listing := schedule.ListingSchedule{
		ListingID:      "listing-1",
		HostID:         "host-1",
		AlertLeadHours: 24,
		Rules:          [2]schedule.WeekdayRule{rule, rule},
	}

	hashKey := make([]byte, 32)
	blockKey := make([]byte, 32)

	return &Server{
		Auth: auth.NewStore(nil, hashKey, blockKey),
		Runner: &runner.Runner{
			Listings:    []schedule.ListingSchedule{listing},
			Hosts:       stubHosts{},
			Alerts:      &stubAlertLog{},
			Log:         hclog.NewNullLogger(),
			NewProvider: func(string) runner.Provider { return provider },
		},
		Log:          hclog.NewNullLogger(),
		TriggerToken: "secret",
		TZ:           loc,
	}
}

func TestRequireToken(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	h := s.requireToken(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Wrong method.
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/street-cleanings?token=secret", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// Missing token.
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/street-cleanings", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Wrong token.
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/street-cleanings?token=guess", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Right token.
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/street-cleanings?token=secret", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleStreetCleanings_NoBooking(t *testing.T) {
	s := newTestServer(t, &stubProvider{})

	rec := httptest.NewRecorder()
	s.handleStreetCleanings(rec, httptest.NewRequest(http.MethodPost, "/api/street-cleanings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []listingResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "listing-1", body.Results[0].Listing)
	assert.Equal(t, "no_active_booking", body.Results[0].Status)
}

func TestHandleStreetCleanings_AlertSent(t *testing.T) {
	now := time.Now()
	provider := &stubProvider{reservations: []booking.Reservation{{
		UID:        "b1",
		ListingUID: "listing-1",
		GuestUID:   "g1",
		Checkin:    now.AddDate(0, 0, -20),
		Checkout:   now.AddDate(0, 0, 20),
	}}}
	s := newTestServer(t, provider)

	rec := httptest.NewRecorder()
	s.handleStreetCleanings(rec, httptest.NewRequest(http.MethodPost, "/api/street-cleanings", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, provider.messaged)

	var body struct {
		Results []listingResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "alert_sent", body.Results[0].Status)
	assert.Contains(t, body.Results[0].Message, "g1")
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, &stubProvider{}).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The dashboard is session-gated.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
