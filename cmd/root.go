package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/court-booker/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var (
	jsonLogs bool
	debug    bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "courtbook",
		Short:         "Books recreation-facility court slots for multiple accounts the moment they open",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Optional; env vars win over .env entries.
			_ = godotenv.Load()
		},
	}

	root.PersistentFlags().BoolVar(&jsonLogs, "json", false, "emit JSON logs")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newSealCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newAccountsCmd())
	root.AddCommand(newResultsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	return logging.New(jsonLogs, debug)
}
