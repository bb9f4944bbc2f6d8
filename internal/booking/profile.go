package booking

import (
	"time"

	"github.com/cockroachdb/errors"
)

// AccountProfile is one account's login and booking parameters, validated at
// load time and immutable for the duration of a run.
type AccountProfile struct {
	Label         string
	LoginURL      string
	Username      string
	Password      Secret
	Facility      string
	TimeOfDay     string // e.g. "7:00pm", "7pm", "19:00"
	CourtNumber   string // optional; empty means any available court
	Phone         string
	BookingReason string
}

// Secret is a string that refuses to print itself. Booking credentials travel
// inside one of these so they cannot leak through logs or %v formatting.
type Secret string

func (Secret) String() string { return "[redacted]" }

func (Secret) GoString() string { return "booking.Secret([redacted])" }

// Reveal returns the underlying value. Call sites are the only places a
// password appears in clear.
func (s Secret) Reveal() string { return string(s) }

func (a AccountProfile) Validate() error {
	if a.Label == "" {
		return errors.New("label required")
	}
	if a.LoginURL == "" {
		return errors.Newf("account %q: login url required", a.Label)
	}
	if a.Username == "" {
		return errors.Newf("account %q: username required", a.Label)
	}
	if a.Password == "" {
		return errors.Newf("account %q: password required", a.Label)
	}
	if a.Facility == "" {
		return errors.Newf("account %q: facility required", a.Label)
	}
	if a.TimeOfDay == "" {
		return errors.Newf("account %q: time required", a.Label)
	}
	if _, err := ParseTimeOfDay(a.TimeOfDay); err != nil {
		return errors.Wrapf(err, "account %q: invalid time", a.Label)
	}
	if a.Phone == "" {
		return errors.Newf("account %q: phone required", a.Label)
	}
	if a.BookingReason == "" {
		return errors.Newf("account %q: booking reason required", a.Label)
	}
	return nil
}

// TargetDate computes the calendar date being booked: now + daysAhead in loc.
// All accounts in a run share the result.
func TargetDate(now time.Time, loc *time.Location, daysAhead int) time.Time {
	d := now.In(loc).AddDate(0, 0, daysAhead)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
