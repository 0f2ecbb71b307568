package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/example/sweepalert/internal/mailer"
	"github.com/example/sweepalert/internal/weather"
)

// DefaultForecastHours covers five days of hourly forecast.
const DefaultForecastHours = 120

// SnowCheck fetches the snow-depth forecast for the site and emails the
// system-events recipient when the peak depth crosses the threshold, so the
// humans can clear the walks before the guests arrive.
type SnowCheck struct {
	Weather       *weather.Client
	Mailer        *mailer.Mailer
	Log           hclog.Logger
	Lat, Lon      float64
	ThresholdIn   float64
	ForecastHours int
}

// SnowResult summarizes one forecast check.
type SnowResult struct {
	Max     weather.HourlyDepth
	Alerted bool
}

func (c *SnowCheck) Run(ctx context.Context) (SnowResult, error) {
	hours, err := c.Weather.SnowDepth(ctx, c.Lat, c.Lon, c.ForecastHours)
	if err != nil {
		return SnowResult{}, err
	}

	max, ok := weather.MaxDepth(hours)
	if !ok {
		return SnowResult{}, fmt.Errorf("empty forecast")
	}
	max.Depth = weather.Round2(max.Depth)
	c.Log.Info("snow depth forecast", "max_in", max.Depth, "at", max.Time)

	res := SnowResult{Max: max}
	if max.Depth < c.ThresholdIn {
		return res, nil
	}

	subject := fmt.Sprintf("Snow alert: %.2f in forecast", max.Depth)
	body := fmt.Sprintf("<p>Forecast peak snow depth is %.2f inches at %s. Please plan to clear snow and ice at the rental.</p>",
		max.Depth, max.Time.Format(time.RFC1123))
	if c.Mailer != nil {
		if err := c.Mailer.SendSystemEvent(ctx, subject, body); err != nil {
			return res, err
		}
		res.Alerted = true
	}
	return res, nil
}
