package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/court-booker/internal/booking"
	"github.com/example/court-booker/internal/config"
	"github.com/example/court-booker/internal/db"
	"github.com/example/court-booker/internal/migrate"
	"github.com/example/court-booker/internal/results"
	"github.com/example/court-booker/internal/webdriver"
)

func newRunCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Book slots for every configured account, concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := newLogger()
			defer func() { _ = log.Sync() }()

			sealer, err := cfg.Sealer()
			if err != nil {
				return err
			}
			accounts, err := config.LoadAccounts(cfg.AccountsFile, sealer)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if at != "" {
				if err := waitUntil(ctx, at, cfg.Location(), log); err != nil {
					return err
				}
			}

			date := booking.TargetDate(time.Now(), cfg.Location(), cfg.DaysAhead)

			client := webdriver.NewClient(cfg.WebDriverURL)
			factory := webdriver.Factory(client, webdriver.Options{Headless: cfg.Headless})

			runner := booking.NewRunner(factory, booking.RunnerConfig{
				Retries:        cfg.Retries,
				Backoff:        cfg.Backoff,
				AttemptTimeout: cfg.AttemptTimeout,
				ArtifactDir:    cfg.ArtifactDir,
				Session:        booking.SessionConfig{StepTimeout: cfg.StepTimeout},
			}, log)
			orch := booking.NewOrchestrator(runner, booking.OrchestratorConfig{
				Deadline: cfg.RunDeadline,
			}, log)

			result := orch.RunAll(ctx, accounts, date)
			finished := time.Now()

			reporter := results.NewReporter(cfg.ResultsDir)
			if path, err := reporter.Write(result); err != nil {
				log.Errorw("write run record", "error", err)
			} else {
				log.Infow("run record written", "path", path)
			}

			if cfg.DatabaseURL != "" {
				if err := saveToStore(ctx, cfg.DatabaseURL, result, finished); err != nil {
					log.Errorw("persist run to database", "error", err)
				}
			}

			if !result.AllSucceeded() {
				_, failed := result.Counts()
				return errors.Newf("%d of %d bookings failed", failed, len(accounts))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "wait until this local wall time (HH:MM[:SS]) before starting")
	return cmd
}

func saveToStore(ctx context.Context, databaseURL string, result booking.RunResult, finished time.Time) error {
	d, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := migrate.Up(ctx, d); err != nil {
		return err
	}
	return results.NewStore(d).SaveRun(ctx, result, finished)
}

// waitUntil sleeps until the next occurrence of the given local wall time.
// Slot releases happen at an exact instant, so landing within a second of the
// target matters more than starting early.
func waitUntil(ctx context.Context, at string, loc *time.Location, log *zap.SugaredLogger) error {
	layout := "15:04"
	if len(at) == len("15:04:05") {
		layout = "15:04:05"
	}
	tod, err := time.ParseInLocation(layout, at, loc)
	if err != nil {
		return errors.Wrapf(err, "invalid --at %q (want HH:MM[:SS])", at)
	}

	now := time.Now().In(loc)
	target := time.Date(now.Year(), now.Month(), now.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}

	log.Infow("waiting for release instant",
		"target", target.Format(time.RFC3339), "sleep", time.Until(target).Round(time.Second).String())

	timer := time.NewTimer(time.Until(target))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
