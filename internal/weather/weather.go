// Package weather fetches snow-depth forecasts from the Tomorrow.io API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

type Client struct {
	hc      *http.Client
	baseURL string
	apiKey  string
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		hc:      &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// HourlyDepth is one forecast hour. Depth is inches, unrounded; rounding
// happens at the presentation edge.
type HourlyDepth struct {
	Time  time.Time
	Depth float64
}

type forecastResponse struct {
	Timelines struct {
		Hourly []struct {
			Time   string `json:"time"`
			Values struct {
				SnowDepth *float64 `json:"snowDepth"`
			} `json:"values"`
		} `json:"hourly"`
	} `json:"timelines"`
}

// SnowDepth returns the first forecastHours hours of snow-depth forecast for
// a location.
func (c *Client) SnowDepth(ctx context.Context, lat, lon float64, forecastHours int) ([]HourlyDepth, error) {
	url := fmt.Sprintf("%s/v4/weather/forecast?location=%f,%f&apikey=%s&timesteps=1h&units=imperial",
		c.baseURL, lat, lon, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: forecast: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("weather: read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: forecast: status=%d", res.StatusCode)
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("weather: decode forecast: %w", err)
	}

	var out []HourlyDepth
	for _, hr := range fr.Timelines.Hourly {
		if len(out) >= forecastHours {
			break
		}
		t, err := time.Parse(time.RFC3339, hr.Time)
		if err != nil {
			return nil, fmt.Errorf("weather: hour time %q: %w", hr.Time, err)
		}
		depth := 0.0
		if hr.Values.SnowDepth != nil {
			depth = *hr.Values.SnowDepth
		}
		out = append(out, HourlyDepth{Time: t, Depth: depth})
	}
	return out, nil
}

// MaxDepth returns the hour with the deepest forecast snow. ok is false for
// an empty forecast.
func MaxDepth(hours []HourlyDepth) (HourlyDepth, bool) {
	if len(hours) == 0 {
		return HourlyDepth{}, false
	}
	max := hours[0]
	for _, h := range hours[1:] {
		if h.Depth > max.Depth {
			max = h
		}
	}
	return max, true
}

// Round2 rounds to 2 decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
