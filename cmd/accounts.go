package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/court-booker/internal/config"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the accounts file",
	}
	cmd.AddCommand(newAccountsValidateCmd())
	cmd.AddCommand(newAccountsListCmd())
	return cmd
}

func newAccountsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate every account, failing on the first bad entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sealer, err := cfg.Sealer()
			if err != nil {
				return err
			}
			accounts, err := config.LoadAccounts(cfg.AccountsFile, sealer)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%d accounts ok (%s)\n", len(accounts), cfg.AccountsFile)
			return nil
		},
	}
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts (no secrets)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			sealer, err := cfg.Sealer()
			if err != nil {
				return err
			}
			accounts, err := config.LoadAccounts(cfg.AccountsFile, sealer)
			if err != nil {
				return err
			}
			for _, a := range accounts {
				court := a.CourtNumber
				if court == "" {
					court = "any"
				}
				fmt.Fprintf(os.Stdout, "%s: facility=%s time=%s court=%s user=%s\n",
					a.Label, a.Facility, a.TimeOfDay, court, a.Username)
			}
			return nil
		},
	}
}
