// Package igms is a minimal iGMS API client covering the two calls this
// service needs: listing bookings in a date range and messaging a booking's
// guest. Authentication is an access token passed as a query parameter.
package igms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/sweepalert/internal/booking"
)

const dttmLayout = "2006-01-02 15:04:05"

type Client struct {
	hc      *http.Client
	baseURL string
	token   string
	tz      *time.Location
}

// New builds a client. tz is the site-local zone used to interpret the
// provider's zone-less local_checkin_dttm/local_checkout_dttm values.
func New(baseURL, accessToken string, tz *time.Location) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		token:   accessToken,
		tz:      tz,
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type bookingRecord struct {
	BookingUID    string `json:"booking_uid"`
	ListingUID    string `json:"listing_uid"`
	GuestUID      string `json:"guest_uid"`
	BookingStatus string `json:"booking_status"`
	CheckinDttm   string `json:"local_checkin_dttm"`
	CheckoutDttm  string `json:"local_checkout_dttm"`
}

type bookingsResponse struct {
	Data  []bookingRecord `json:"data"`
	Error *apiError       `json:"error"`
}

// Bookings returns accepted bookings touching [from, to]. The provider's
// date filter is coarse; callers filter by listing and exact times.
func (c *Client) Bookings(ctx context.Context, from, to time.Time, listingID string) ([]booking.Reservation, error) {
	q := map[string]string{
		"from_date":      from.Format(dttmLayout),
		"to_date":        to.Format(dttmLayout),
		"booking_status": "accepted",
	}
	body, err := c.do(ctx, http.MethodGet, "/v1/bookings", q, nil)
	if err != nil {
		return nil, err
	}

	var res bookingsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("igms: decode bookings: %w", err)
	}
	if res.Error != nil && res.Error.Message != "" {
		return nil, fmt.Errorf("igms: bookings: %s (code=%d)", res.Error.Message, res.Error.Code)
	}

	out := make([]booking.Reservation, 0, len(res.Data))
	for _, b := range res.Data {
		checkin, err := time.ParseInLocation(dttmLayout, b.CheckinDttm, c.tz)
		if err != nil {
			return nil, fmt.Errorf("igms: booking %s checkin %q: %w", b.BookingUID, b.CheckinDttm, err)
		}
		checkout, err := time.ParseInLocation(dttmLayout, b.CheckoutDttm, c.tz)
		if err != nil {
			return nil, fmt.Errorf("igms: booking %s checkout %q: %w", b.BookingUID, b.CheckoutDttm, err)
		}
		out = append(out, booking.Reservation{
			UID:        b.BookingUID,
			ListingUID: b.ListingUID,
			GuestUID:   b.GuestUID,
			Checkin:    checkin,
			Checkout:   checkout,
		})
	}
	return out, nil
}

// MessageGuest sends a message to the guest of a booking.
func (c *Client) MessageGuest(ctx context.Context, r booking.Reservation, message string) error {
	payload, err := json.Marshal(struct {
		BookingUID string `json:"booking_uid"`
		Message    string `json:"message"`
	}{BookingUID: r.UID, Message: message})
	if err != nil {
		return err
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/message-booking-guest", nil, payload)
	if err != nil {
		return err
	}
	var res struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &res); err == nil && res.Error != nil && res.Error.Message != "" {
		return fmt.Errorf("igms: message guest: %s (code=%d)", res.Error.Message, res.Error.Code)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	q := req.URL.Query()
	q.Set("access_token", c.token)
	for k, v := range query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("igms: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("igms: read response: %w", err)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("igms: %s %s: status=%d", method, path, res.StatusCode)
	}
	return b, nil
}
