package booking

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/example/court-booker/internal/browser"
)

// RunnerConfig bounds one account's booking effort.
type RunnerConfig struct {
	// Retries is how many extra attempts follow a transiently failed first
	// one. Non-transient reasons are never retried.
	Retries int
	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
	// AttemptTimeout bounds each attempt's wall clock.
	AttemptTimeout time.Duration
	// ArtifactDir receives failure snapshots; empty disables capture.
	ArtifactDir string

	Session SessionConfig
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 2 * time.Minute
	}
	return c
}

// Runner executes one account's booking to completion. It never panics or
// returns an error; every failure mode lands in the Outcome. Each attempt gets
// a fresh browser so driver state cannot bleed between tries.
type Runner struct {
	browsers browser.Factory
	cfg      RunnerConfig
	log      *zap.SugaredLogger
}

func NewRunner(browsers browser.Factory, cfg RunnerConfig, log *zap.SugaredLogger) *Runner {
	return &Runner{browsers: browsers, cfg: cfg.withDefaults(), log: log}
}

// Run drives account's booking for date and reports the single Outcome for
// this run. The caller's ctx carries the global run deadline; when it fires
// the outcome reason is RunDeadlineExceeded.
func (r *Runner) Run(ctx context.Context, account AccountProfile, date time.Time) Outcome {
	out := Outcome{Account: account.Label, StartedAt: time.Now()}

	var err error
	for {
		out.Attempts++
		var artifact string
		artifact, err = r.attempt(ctx, account, date)
		if artifact != "" {
			out.Artifact = artifact
		}
		if err == nil {
			out.Success = true
			break
		}

		reason := ReasonOf(err)
		if ctx.Err() != nil {
			// The run deadline (or a caller cancel) fired; the browser was
			// released by the session's own teardown.
			reason = ReasonDeadline
		}

		if reason.Transient() && out.Attempts <= r.cfg.Retries && ctx.Err() == nil {
			r.log.Infow("retrying after transient failure",
				"account", account.Label, "reason", reason, "attempt", out.Attempts)
			select {
			case <-ctx.Done():
				reason = ReasonDeadline
			case <-time.After(r.cfg.Backoff):
				continue
			}
		}

		out.Reason = reason
		out.Detail = err.Error()
		break
	}

	out.FinishedAt = time.Now()
	return out
}

// attempt runs one fresh session, translating panics into errors and saving a
// failure snapshot when the session captured one.
func (r *Runner) attempt(ctx context.Context, account AccountProfile, date time.Time) (artifact string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = stepErr("attempt", ReasonInternal, errors.Newf("panic: %v", p))
		}
	}()

	actx, cancel := context.WithTimeout(ctx, r.cfg.AttemptTimeout)
	defer cancel()

	b, err := r.browsers(actx)
	if err != nil {
		return "", stepErr("attempt", ReasonNavigation, errors.Wrap(err, "acquire browser"))
	}

	sess := NewSession(b, account, date, r.cfg.Session, r.log)
	err = sess.Run(actx)
	if err != nil && r.cfg.ArtifactDir != "" {
		if shot := sess.Snapshot(); shot != nil {
			artifact = r.saveSnapshot(account.Label, shot)
		}
	}
	return artifact, err
}

func (r *Runner) saveSnapshot(label string, shot []byte) string {
	if err := os.MkdirAll(r.cfg.ArtifactDir, 0o755); err != nil {
		r.log.Warnw("artifact dir", "error", err)
		return ""
	}
	name := label + "_" + time.Now().Format("20060102_150405") + ".png"
	path := filepath.Join(r.cfg.ArtifactDir, name)
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		r.log.Warnw("write snapshot", "path", path, "error", err)
		return ""
	}
	return path
}
