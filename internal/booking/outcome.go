package booking

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Reason classifies why a booking attempt failed.
type Reason string

const (
	ReasonAuth         Reason = "auth_error"
	ReasonNavigation   Reason = "navigation_error"
	ReasonSlot         Reason = "slot_unavailable"
	ReasonTimeout      Reason = "timeout"
	ReasonConfirmation Reason = "confirmation_error"
	ReasonAmbiguous    Reason = "ambiguous_result"
	ReasonDeadline     Reason = "run_deadline_exceeded"
	ReasonInternal     Reason = "internal_error"
)

// Transient reports whether retrying an identical fresh attempt could help.
// Bad credentials and a fully booked slot will not change between attempts.
func (r Reason) Transient() bool {
	return r == ReasonTimeout || r == ReasonNavigation
}

// StepError is a failure edge out of a session state. It carries the
// classified reason and wraps the underlying cause.
type StepError struct {
	Reason Reason
	Step   string
	Err    error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return e.Step + ": " + string(e.Reason)
	}
	return e.Step + ": " + string(e.Reason) + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step string, reason Reason, err error) *StepError {
	return &StepError{Reason: reason, Step: step, Err: err}
}

// ReasonOf extracts the failure reason from err, defaulting to
// ReasonInternal for anything unclassified.
func ReasonOf(err error) Reason {
	var se *StepError
	if errors.As(err, &se) {
		return se.Reason
	}
	return ReasonInternal
}

// Outcome is the recorded result of one account's attempt within one run.
// Exactly one exists per configured account per run.
type Outcome struct {
	Account    string
	Success    bool
	Reason     Reason // set iff !Success
	Detail     string // human-readable failure detail, empty on success
	StartedAt  time.Time
	FinishedAt time.Time
	Attempts   int
	Artifact   string // path to a captured page snapshot, if any
}

// RunResult aggregates one run across all configured accounts.
type RunResult struct {
	ID        string
	Date      time.Time // target date being booked
	StartedAt time.Time
	Outcomes  map[string]Outcome // keyed by account label
}

func (r RunResult) AllSucceeded() bool {
	for _, o := range r.Outcomes {
		if !o.Success {
			return false
		}
	}
	return true
}

func (r RunResult) Counts() (ok, failed int) {
	for _, o := range r.Outcomes {
		if o.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
