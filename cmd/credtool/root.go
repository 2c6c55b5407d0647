package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/dbsession/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "credtool",
		Short: "Manage the encrypted database credential",
		Long: `credtool produces the value to paste into the "password" field of the
connection config file, decodes existing values, and checks that a config file
can actually reach its database. Key and driver come from the same
DBSESSION_ environment variables the service reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEncryptCmd(), newDecryptCmd(), newCheckCmd())
	return root
}

// loadSettings reads the process settings and builds a logger writing to the
// command's stderr.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
	return cfg, logger, nil
}
