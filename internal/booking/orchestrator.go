package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrchestratorConfig bounds a whole run.
type OrchestratorConfig struct {
	// Deadline is the global wall-clock budget for all accounts together.
	Deadline time.Duration
	// Grace is how long to wait for straggling runners after the deadline
	// fires before recording them as deadline failures.
	Grace time.Duration
}

func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.Deadline <= 0 {
		c.Deadline = 8 * time.Minute
	}
	if c.Grace <= 0 {
		c.Grace = 10 * time.Second
	}
	return c
}

// Orchestrator fans out one runner per configured account, runs them
// concurrently, and assembles the run result. No account's failure blocks or
// cancels another's attempt.
type Orchestrator struct {
	runner *Runner
	cfg    OrchestratorConfig
	log    *zap.SugaredLogger
}

func NewOrchestrator(runner *Runner, cfg OrchestratorConfig, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{runner: runner, cfg: cfg.withDefaults(), log: log}
}

// RunAll books date for every account concurrently and returns a RunResult
// holding exactly one Outcome per account, whatever happened to each.
//
// The per-account "Booking successful for <account>" / "Booking failed for
// <account>" lines are parsed downstream by substring match. Do not reword
// them without updating the consumer.
func (o *Orchestrator) RunAll(ctx context.Context, accounts []AccountProfile, date time.Time) RunResult {
	result := RunResult{
		ID:        uuid.NewString(),
		Date:      date,
		StartedAt: time.Now(),
		Outcomes:  make(map[string]Outcome, len(accounts)),
	}

	o.log.Infow("starting booking run",
		"run_id", result.ID,
		"target_date", date.Format("2006-01-02"),
		"accounts", len(accounts))

	rctx, cancel := context.WithTimeout(ctx, o.cfg.Deadline)
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		sealed bool
	)
	for _, account := range accounts {
		wg.Add(1)
		go func(a AccountProfile) {
			defer wg.Done()
			out := o.runner.Run(rctx, a, date)

			mu.Lock()
			if sealed {
				// The run was already finalized with a deadline outcome for
				// this account; its result belongs to no run anymore.
				mu.Unlock()
				return
			}
			result.Outcomes[a.Label] = out
			mu.Unlock()

			if out.Success {
				o.log.Infof("Booking successful for %s", a.Label)
			} else {
				o.log.Infof("Booking failed for %s", a.Label)
				o.log.Infow("failure detail",
					"account", a.Label, "reason", out.Reason, "detail", out.Detail)
			}
		}(account)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(o.cfg.Deadline + o.cfg.Grace):
		// Stragglers get recorded as deadline failures; their sessions
		// release their own browsers on a detached context.
		mu.Lock()
		sealed = true
		for _, a := range accounts {
			if _, ok := result.Outcomes[a.Label]; ok {
				continue
			}
			result.Outcomes[a.Label] = Outcome{
				Account:    a.Label,
				Reason:     ReasonDeadline,
				Detail:     "run deadline exceeded",
				StartedAt:  result.StartedAt,
				FinishedAt: time.Now(),
			}
			o.log.Infof("Booking failed for %s", a.Label)
		}
		mu.Unlock()
	}

	ok, failed := result.Counts()
	o.log.Infof("Booking run complete: %d succeeded, %d failed", ok, failed)
	return result
}
