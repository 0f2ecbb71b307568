package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/sweepalert/internal/alert"
	"github.com/example/sweepalert/internal/config"
	"github.com/example/sweepalert/internal/db"
	"github.com/example/sweepalert/internal/hosts"
	"github.com/example/sweepalert/internal/igms"
	"github.com/example/sweepalert/internal/schedule"
)

// run is a diagnostic one-shot: resolve the decision for one or all listings
// without messaging the guest or touching the alert log.
func newRunCmd() *cobra.Command {
	var (
		listingID string
		nowFlag   string
	)

	c := &cobra.Command{
		Use:   "run",
		Short: "Resolve the street-cleaning decision once and print the outcome (no messages sent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx := context.Background()
			now := time.Now().In(cfg.SiteTZ)
			if nowFlag != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", nowFlag, cfg.SiteTZ)
				if err != nil {
					return fmt.Errorf("invalid --now (want 'YYYY-MM-DD HH:MM'): %w", err)
				}
				now = t
			}

			listings, err := config.LoadListings(cfg.ListingsFile)
			if err != nil {
				return err
			}

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			hostRepo, err := hosts.NewRepo(d, cfg.CredEncKey)
			if err != nil {
				return err
			}

			for _, s := range listings {
				if listingID != "" && s.ListingID != listingID {
					continue
				}

				token, err := hostRepo.Token(ctx, s.HostID)
				if err != nil {
					if !db.IsNotFound(err) {
						return err
					}
					token = cfg.IgmsToken
				}
				if token == "" {
					return fmt.Errorf("no access token for host %s", s.HostID)
				}

				decider := alert.Decider{Lookup: igms.New(cfg.IgmsBaseURL, token, cfg.SiteTZ)}
				out, err := decider.Decide(ctx, s, now)
				if err != nil {
					return err
				}
				printOutcome(s, out)
			}
			return nil
		},
	}

	c.Flags().StringVar(&listingID, "listing", "", "resolve only this listing id")
	c.Flags().StringVar(&nowFlag, "now", "", "resolve as of this site-local time 'YYYY-MM-DD HH:MM' (default: now)")
	return c
}

func printOutcome(s schedule.ListingSchedule, out alert.Outcome) {
	fmt.Fprintf(os.Stdout, "listing=%s %s\n", s.ListingID, out.Reason())
	if out.Kind == alert.SendAlert {
		fmt.Fprintf(os.Stdout, "  reservation=%s guest=%s checkin=%s checkout=%s\n",
			out.Reservation.UID, out.Reservation.GuestUID,
			out.Reservation.Checkin.Format(time.RFC3339), out.Reservation.Checkout.Format(time.RFC3339))
		fmt.Fprintf(os.Stdout, "  message: %s\n", out.Message)
	}
}
