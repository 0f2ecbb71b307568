package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/sweepalert/internal/config"
	"github.com/example/sweepalert/internal/db"
	"github.com/example/sweepalert/internal/hosts"
	"github.com/example/sweepalert/internal/migrate"
)

func newHostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Manage booking-provider host accounts",
	}
	cmd.AddCommand(newHostSetTokenCmd())
	cmd.AddCommand(newHostListCmd())
	return cmd
}

func newHostSetTokenCmd() *cobra.Command {
	var hostUID, token string

	c := &cobra.Command{
		Use:   "set-token",
		Short: "Store (or replace) a host's iGMS access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := migrate.Up(ctx, d); err != nil {
				return err
			}

			repo, err := hosts.NewRepo(d, cfg.CredEncKey)
			if err != nil {
				return err
			}
			if err := repo.SetToken(ctx, hostUID, token); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "stored token for host %q\n", hostUID)
			return nil
		},
	}

	c.Flags().StringVar(&hostUID, "host", "", "iGMS host uid")
	c.Flags().StringVar(&token, "token", "", "iGMS access token")
	_ = c.MarkFlagRequired("host")
	_ = c.MarkFlagRequired("token")
	return c
}

func newHostListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored host accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			repo, err := hosts.NewRepo(d, cfg.CredEncKey)
			if err != nil {
				return err
			}
			accounts, err := repo.List(ctx)
			if err != nil {
				return err
			}
			for _, a := range accounts {
				fmt.Fprintf(os.Stdout, "host=%s updated=%s\n", a.HostUID, a.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
