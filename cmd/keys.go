package cmd

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate CRED_ENC_KEY and CRED_ENC_SALT values (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := make([]byte, 32)
			salt := make([]byte, 16)
			if _, err := rand.Read(key); err != nil {
				return err
			}
			if _, err := rand.Read(salt); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "export CRED_ENC_KEY=%s\n", base64.StdEncoding.EncodeToString(key))
			fmt.Fprintf(os.Stdout, "export CRED_ENC_SALT=%s\n", base64.StdEncoding.EncodeToString(salt))
			return nil
		},
	}
}
