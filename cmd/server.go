package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sweepalert/internal/alertlog"
	"github.com/example/sweepalert/internal/config"
	"github.com/example/sweepalert/internal/db"
	"github.com/example/sweepalert/internal/hosts"
	"github.com/example/sweepalert/internal/igms"
	"github.com/example/sweepalert/internal/mailer"
	"github.com/example/sweepalert/internal/migrate"
	"github.com/example/sweepalert/internal/runner"
	"github.com/example/sweepalert/internal/scheduler"
	"github.com/example/sweepalert/internal/weather"
	"github.com/example/sweepalert/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the trigger API, dashboard and cron scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			listings, err := config.LoadListings(cfg.ListingsFile)
			if err != nil {
				return err
			}

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			hostRepo, err := hosts.NewRepo(d, cfg.CredEncKey)
			if err != nil {
				return err
			}
			alertRepo := alertlog.NewRepo(d)

			var sysMailer *mailer.Mailer
			if cfg.SysEventsRecipient != "" && cfg.MailerUser != "" {
				sysMailer, err = mailer.New(cfg.MailerHost, cfg.MailerPort, cfg.MailerUser, cfg.MailerPass,
					cfg.AppName, cfg.SysEventsSender, cfg.SysEventsRecipient)
				if err != nil {
					return err
				}
			} else {
				logger.Warn("system-events mailer not configured; error reports and snow notices disabled")
			}

			run := &runner.Runner{
				Listings:      listings,
				Hosts:         hostRepo,
				Alerts:        alertRepo,
				Log:           logger,
				FallbackToken: cfg.IgmsToken,
				NewProvider: func(token string) runner.Provider {
					return igms.New(cfg.IgmsBaseURL, token, cfg.SiteTZ)
				},
			}

			snow := &runner.SnowCheck{
				Weather:       weather.New(cfg.WeatherBaseURL, cfg.WeatherAPIKey),
				Mailer:        sysMailer,
				Log:           logger,
				Lat:           cfg.SiteLat,
				Lon:           cfg.SiteLon,
				ThresholdIn:   cfg.SnowAlertIn,
				ForecastHours: runner.DefaultForecastHours,
			}

			sched := scheduler.New(logger)
			if cfg.AlertCron != "" {
				err := sched.Add(cfg.AlertCron, "street-cleanings", func(jobCtx context.Context) {
					_, errs := run.RunAll(jobCtx, time.Now().In(cfg.SiteTZ))
					for _, err := range errs {
						logger.Error("scheduled street cleaning check failed", "err", err)
					}
				})
				if err != nil {
					return fmt.Errorf("ALERT_CRON: %w", err)
				}
			}
			if cfg.SnowCron != "" {
				err := sched.Add(cfg.SnowCron, "snow", func(jobCtx context.Context) {
					if _, err := snow.Run(jobCtx); err != nil {
						logger.Error("scheduled snow check failed", "err", err)
					}
				})
				if err != nil {
					return fmt.Errorf("SNOW_CRON: %w", err)
				}
			}
			go func() { _ = sched.Run(ctx) }()

			authStore := newAuthStore(d, cfg)
			ws := &web.Server{
				Auth:         authStore,
				Runner:       run,
				Snow:         snow,
				Alerts:       alertRepo,
				Listings:     listings,
				Mailer:       sysMailer,
				Log:          logger,
				TriggerToken: cfg.TriggerToken,
				TZ:           cfg.SiteTZ,
			}

			logger.Info("listening", "addr", cfg.ListenAddr, "listings", len(listings))
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}
