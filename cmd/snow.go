package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sweepalert/internal/config"
	"github.com/example/sweepalert/internal/mailer"
	"github.com/example/sweepalert/internal/runner"
	"github.com/example/sweepalert/internal/weather"
)

func newSnowCmd() *cobra.Command {
	var notify bool

	c := &cobra.Command{
		Use:   "snow",
		Short: "Check the snow-depth forecast for the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			var sysMailer *mailer.Mailer
			if notify {
				if cfg.SysEventsRecipient == "" || cfg.MailerUser == "" {
					return fmt.Errorf("--notify requires mailer configuration")
				}
				sysMailer, err = mailer.New(cfg.MailerHost, cfg.MailerPort, cfg.MailerUser, cfg.MailerPass,
					cfg.AppName, cfg.SysEventsSender, cfg.SysEventsRecipient)
				if err != nil {
					return err
				}
			}

			check := &runner.SnowCheck{
				Weather:       weather.New(cfg.WeatherBaseURL, cfg.WeatherAPIKey),
				Mailer:        sysMailer,
				Log:           logger,
				Lat:           cfg.SiteLat,
				Lon:           cfg.SiteLon,
				ThresholdIn:   cfg.SnowAlertIn,
				ForecastHours: runner.DefaultForecastHours,
			}

			res, err := check.Run(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "max snow depth %.2f in at %s (threshold %.2f, alerted=%v)\n",
				res.Max.Depth, res.Max.Time, cfg.SnowAlertIn, res.Alerted)
			return nil
		},
	}

	c.Flags().BoolVar(&notify, "notify", false, "email the system-events recipient if the threshold is crossed")
	return c
}
