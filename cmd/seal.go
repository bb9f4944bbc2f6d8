package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/example/court-booker/internal/config"
)

func newSealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal",
		Short: "Seal a password (read from stdin) for the accounts file",
		Long: `Reads one line from stdin and prints the sealed form to put in the
accounts file as the password value. Requires CRED_ENC_KEY or
CRED_ENC_PASSPHRASE/CRED_ENC_SALT in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sealer, err := cfg.Sealer()
			if err != nil {
				return err
			}
			if sealer == nil {
				return errors.New("no credential key configured (run `courtbook keys`)")
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return errors.Wrap(err, "read password from stdin")
			}
			plain := strings.TrimRight(line, "\r\n")
			if plain == "" {
				return errors.New("empty password")
			}

			sealed, err := sealer.SealToString(plain)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "sealed:%s\n", sealed)
			return nil
		},
	}
}
