package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/example/court-booker/internal/config"
	"github.com/example/court-booker/internal/db"
	"github.com/example/court-booker/internal/results"
)

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect recorded booking runs",
	}
	cmd.AddCommand(newResultsListCmd())
	cmd.AddCommand(newResultsLatestCmd())
	return cmd
}

func newResultsListCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "list",
		Short: "List recent runs from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required for results list")
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			runs, err := results.NewStore(d).RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(os.Stdout, "%s date=%s started=%s ok=%d failed=%d\n",
					r.ID, r.TargetDate.Format("2006-01-02"),
					r.StartedAt.Format(time.RFC3339), r.OK, r.Failed)
			}
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "max runs to list")
	return c
}

func newResultsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest run (database when configured, else the latest record file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			if cfg.DatabaseURL != "" {
				ctx := context.Background()
				d, err := db.Open(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer d.Close()

				run, outcomes, err := results.NewStore(d).LatestRun(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "run %s date=%s ok=%d failed=%d\n",
					run.ID, run.TargetDate.Format("2006-01-02"), run.OK, run.Failed)
				for _, o := range outcomes {
					status := "failed (" + string(o.Reason) + ")"
					if o.Success {
						status = "ok"
					}
					fmt.Fprintf(os.Stdout, "  %s: %s attempts=%d\n", o.Account, status, o.Attempts)
				}
				return nil
			}

			rec, err := results.NewReporter(cfg.ResultsDir).ReadLatest()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "run date=%s at=%s\n", rec.Date, rec.Timestamp)
			for account, ok := range rec.Results {
				status := "failed"
				if ok {
					status = "ok"
				}
				fmt.Fprintf(os.Stdout, "  %s: %s\n", account, status)
			}
			return nil
		},
	}
}
