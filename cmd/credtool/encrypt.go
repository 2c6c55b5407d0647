package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/dbsession/internal/adapter/driven/secret"
)

func newEncryptCmd() *cobra.Command {
	var scheme string

	cmd := &cobra.Command{
		Use:   "encrypt <plaintext>",
		Short: "Encrypt a password for the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if scheme != "" {
				s, err := secret.ParseScheme(scheme)
				if err != nil {
					return err
				}
				cfg.SealScheme = string(s)
			}

			sealed, err := cfg.Cipher().Encrypt(args[0])
			if err != nil {
				return fmt.Errorf("encrypt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheme, "scheme", "", `seal scheme, "legacy" or "gcm" (default from DBSESSION_SEAL_SCHEME)`)
	return cmd
}
