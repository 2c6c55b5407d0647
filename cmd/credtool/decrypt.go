package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDecryptCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decrypt <ciphertext>",
		Short: "Decrypt a password taken from the config file",
		Long: `Decrypt prints the plaintext for a value from the config file. Like the
service, it prints values that do not decrypt unchanged and notes this on
stderr; --strict turns that case into an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			cipher := cfg.Cipher()

			if strict {
				plain, err := cipher.Open(args[0])
				if err != nil {
					return fmt.Errorf("decrypt: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), plain)
				return nil
			}

			plain, ok := cipher.Decrypt(args[0])
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: value is not ciphertext under the current key; shown as-is")
			}
			fmt.Fprintln(cmd.OutOrStdout(), plain)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail instead of passing through values that do not decrypt")
	return cmd
}
