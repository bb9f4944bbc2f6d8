// Package results records booking runs: a JSON file per run for the dashboard
// parser, and optionally rows in Postgres.
package results

import (
	"context"
	"time"

	"github.com/example/court-booker/internal/booking"
	"github.com/example/court-booker/internal/db"
)

type Store struct{ db *db.DB }

func NewStore(d *db.DB) *Store { return &Store{db: d} }

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         string
	TargetDate time.Time
	StartedAt  time.Time
	FinishedAt time.Time
	OK         int
	Failed     int
}

// SaveRun persists the run and every outcome.
func (s *Store) SaveRun(ctx context.Context, r booking.RunResult, finishedAt time.Time) error {
	ok, failed := r.Counts()
	if err := s.db.Exec(ctx, `
INSERT INTO runs(id, target_date, started_at, finished_at, ok_count, fail_count)
VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.Date, r.StartedAt, finishedAt, ok, failed); err != nil {
		return db.WrapNotFound(err)
	}

	for _, o := range r.Outcomes {
		var reason *string
		if !o.Success {
			rs := string(o.Reason)
			reason = &rs
		}
		if err := s.db.Exec(ctx, `
INSERT INTO run_outcomes(run_id, account, success, reason, detail, attempts, started_at, finished_at, artifact)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			r.ID, o.Account, o.Success, reason, o.Detail, o.Attempts, o.StartedAt, o.FinishedAt, o.Artifact); err != nil {
			return db.WrapNotFound(err)
		}
	}
	return nil
}

func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, target_date, started_at, finished_at, ok_count, fail_count
FROM runs
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.TargetDate, &r.StartedAt, &r.FinishedAt, &r.OK, &r.Failed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestRun returns the most recent run and its outcomes.
func (s *Store) LatestRun(ctx context.Context) (RunSummary, []booking.Outcome, error) {
	var r RunSummary
	err := s.db.QueryRow(ctx, `
SELECT id, target_date, started_at, finished_at, ok_count, fail_count
FROM runs
ORDER BY started_at DESC
LIMIT 1`).Scan(&r.ID, &r.TargetDate, &r.StartedAt, &r.FinishedAt, &r.OK, &r.Failed)
	if err != nil {
		return RunSummary{}, nil, db.WrapNotFound(err)
	}
	outcomes, err := s.Outcomes(ctx, r.ID)
	return r, outcomes, err
}

func (s *Store) Outcomes(ctx context.Context, runID string) ([]booking.Outcome, error) {
	rows, err := s.db.Query(ctx, `
SELECT account, success, reason, detail, attempts, started_at, finished_at, artifact
FROM run_outcomes
WHERE run_id=$1
ORDER BY account`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.Outcome
	for rows.Next() {
		var o booking.Outcome
		var reason, artifact *string
		if err := rows.Scan(&o.Account, &o.Success, &reason, &o.Detail, &o.Attempts, &o.StartedAt, &o.FinishedAt, &artifact); err != nil {
			return nil, err
		}
		if reason != nil {
			o.Reason = booking.Reason(*reason)
		}
		if artifact != nil {
			o.Artifact = *artifact
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
