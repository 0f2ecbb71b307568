package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/example/sweepalert/internal/auth"
	"github.com/example/sweepalert/internal/config"
	"github.com/example/sweepalert/internal/db"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sweepalert",
		Short: "Street-cleaning alert service for short-term rental guests",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newSnowCmd())
	root.AddCommand(newHostCmd())
	root.AddCommand(newUserCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "sweepalert",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})
}

func newAuthStore(d *db.DB, cfg config.Config) *auth.Store {
	return auth.NewStore(d, cfg.SessionHashKey, cfg.SessionBlockKey)
}
