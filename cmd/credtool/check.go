package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/dbsession/internal/adapter/driven/sqldb"
	"github.com/ericfisherdev/dbsession/internal/application"
)

func newCheckCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the config file, connect, and run SELECT 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.ConfigPath
			}

			loader := application.NewConfigLoader(cfg.Cipher(), logger)
			sess, err := application.Bootstrap(cmd.Context(), loader, sqldb.NewManager(cfg.DBDriver(), logger), path)
			if err != nil {
				return err
			}
			defer sess.Close()

			v, err := sess.DB.QueryScalar(cmd.Context(), "SELECT 1")
			if err != nil {
				return fmt.Errorf("probe query: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: connected to %s as %s (SELECT 1 = %v)\n",
				sess.Config.Database, sess.Config.User, v)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "config", "", "config file (default from DBSESSION_CONFIG_PATH)")
	return cmd
}
