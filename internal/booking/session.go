package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/example/court-booker/internal/browser"
)

// SessionConfig bounds the waits inside a session.
type SessionConfig struct {
	// StepTimeout bounds each state's wait for the UI to change.
	StepTimeout time.Duration
	// ProbeTimeout bounds probes for elements that are merely optional, like
	// the active-session alert.
	ProbeTimeout time.Duration
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.StepTimeout <= 0 {
		c.StepTimeout = 15 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 3 * time.Second
	}
	return c
}

// Session drives one account through the portal's reservation workflow:
// login, open the calendar for the target date, pick a slot, confirm, verify.
// It owns its browser handle exclusively and releases it on every exit path.
type Session struct {
	account AccountProfile
	date    time.Time
	b       browser.Browser
	cfg     SessionConfig
	log     *zap.SugaredLogger

	loggedIn bool
	snapshot []byte
}

func NewSession(b browser.Browser, account AccountProfile, date time.Time, cfg SessionConfig, log *zap.SugaredLogger) *Session {
	return &Session{
		account: account,
		date:    date,
		b:       b,
		cfg:     cfg.withDefaults(),
		log:     log.With("account", account.Label),
	}
}

// Run executes the workflow to a terminal state. A nil return means the
// reservation was verified on the portal; otherwise the returned error is a
// *StepError carrying the failure reason. The browser is released before Run
// returns, whatever happens.
func (s *Session) Run(ctx context.Context) error {
	defer s.release(ctx)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"login", s.login},
		{"navigate", s.openCalendar},
		{"select", s.selectSlot},
		{"confirm", s.confirmBooking},
		{"verify", s.verifyResult},
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return stepErr(st.name, ReasonTimeout, err)
		}
		if err := st.fn(ctx); err != nil {
			s.capture(ctx)
			return err
		}
		s.log.Debugw("step complete", "step", st.name)
	}
	return nil
}

// capture grabs a page snapshot on failure, before the browser is released.
func (s *Session) capture(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), 5*time.Second)
	defer cancel()
	shot, err := s.b.Screenshot(ctx)
	if err != nil {
		s.log.Debugw("snapshot failed", "error", err)
		return
	}
	s.snapshot = shot
}

// Snapshot returns the page capture taken when the session failed, if any.
// Valid after Run returns.
func (s *Session) Snapshot() []byte { return s.snapshot }

// release logs out best-effort and closes the browser. It runs on a detached
// context so a blown run deadline cannot leak the browser.
func (s *Session) release(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), 10*time.Second)
	defer cancel()

	if s.loggedIn {
		if err := s.logout(ctx); err != nil {
			s.log.Debugw("logout failed", "error", err)
		}
	}
	if err := s.b.Close(ctx); err != nil {
		s.log.Warnw("browser close failed", "error", err)
	}
}

func (s *Session) login(ctx context.Context) error {
	if err := s.b.Open(ctx, s.account.LoginURL); err != nil {
		return stepErr("login", ReasonNavigation, err)
	}
	if err := s.b.WaitFor(ctx, selLoginUsername, s.cfg.StepTimeout); err != nil {
		return stepErr("login", ReasonNavigation, errors.Wrap(err, "login form"))
	}

	if err := s.b.Fill(ctx, selLoginUsername, s.account.Username); err != nil {
		return stepErr("login", ReasonAuth, err)
	}
	if err := s.b.Fill(ctx, selLoginPassword, s.account.Password.Reveal()); err != nil {
		return stepErr("login", ReasonAuth, err)
	}
	if err := s.b.Click(ctx, selLoginButton); err != nil {
		return stepErr("login", ReasonAuth, err)
	}

	// The portal warns when the account has another session open; a Continue
	// click takes it over.
	if err := s.b.WaitFor(ctx, selActiveSessionAlert, s.cfg.ProbeTimeout); err == nil {
		s.log.Infow("active session alert, continuing")
		if err := s.b.Click(ctx, selActiveSessionContinue); err != nil {
			return stepErr("login", ReasonAuth, err)
		}
	}

	if err := s.b.WaitFor(ctx, selPostLoginMark, s.cfg.StepTimeout); err != nil {
		if banner, berr := s.b.Exists(ctx, selLoginError); berr == nil && banner {
			return stepErr("login", ReasonAuth, errors.New("portal rejected credentials"))
		}
		return stepErr("login", ReasonAuth, errors.Wrap(err, "post-login marker"))
	}
	s.loggedIn = true
	return nil
}

func (s *Session) openCalendar(ctx context.Context) error {
	if err := s.b.Click(ctx, selFacilityTile); err != nil {
		return navErr("navigate", err)
	}
	if err := s.b.WaitFor(ctx, selFacilitySearch, s.cfg.StepTimeout); err != nil {
		return navErr("navigate", errors.Wrap(err, "facility search page"))
	}

	// A previous session can leave selections behind; clear them so the
	// search starts clean.
	if err := s.b.WaitFor(ctx, selClearSelection, s.cfg.ProbeTimeout); err == nil {
		if err := s.b.Click(ctx, selClearSelection); err != nil {
			return navErr("navigate", err)
		}
	}

	if err := s.pickDate(ctx); err != nil {
		return err
	}

	if err := s.b.Click(ctx, selSearchButton); err != nil {
		return navErr("navigate", err)
	}
	if err := s.b.WaitFor(ctx, selSlotGrid, s.cfg.StepTimeout); err != nil {
		return navErr("navigate", errors.Wrap(err, "slot grid"))
	}
	return nil
}

// pickDate walks the portal's month/day/year dropdown datepicker.
func (s *Session) pickDate(ctx context.Context) error {
	if err := s.b.Click(ctx, selDatePicker); err != nil {
		return navErr("navigate", err)
	}

	parts := []struct {
		dropdown string
		option   string
	}{
		{selMonthDropdown, s.date.Month().String()},
		{selDayDropdown, strconv.Itoa(s.date.Day())},
		{selYearDropdown, strconv.Itoa(s.date.Year())},
	}
	for _, p := range parts {
		if err := s.b.Click(ctx, p.dropdown); err != nil {
			return navErr("navigate", err)
		}
		sel := selListOption(p.option)
		if err := s.b.WaitFor(ctx, sel, s.cfg.StepTimeout); err != nil {
			return navErr("navigate", errors.Wrapf(err, "datepicker option %s", p.option))
		}
		if err := s.b.Click(ctx, sel); err != nil {
			return navErr("navigate", err)
		}
	}

	if err := s.b.Click(ctx, selDatePickerDone); err != nil {
		return navErr("navigate", err)
	}
	return nil
}

func (s *Session) selectSlot(ctx context.Context) error {
	tod, err := ParseTimeOfDay(s.account.TimeOfDay)
	if err != nil {
		return stepErr("select", ReasonInternal, err)
	}
	label := tod.SlotLabel()

	titles, err := s.b.Texts(ctx, selCourtTitles)
	if err != nil {
		return stepErr("select", ReasonSlot, err)
	}
	candidates := CourtCandidates(titles, s.account.Facility, s.account.CourtNumber)
	if len(candidates) == 0 {
		return stepErr("select", ReasonSlot,
			errors.Newf("no %s courts in results", s.account.Facility))
	}

	for _, court := range candidates {
		sel := selSlotButton(court, label)
		open, err := s.b.Exists(ctx, sel)
		if err != nil {
			return stepErr("select", ReasonSlot, err)
		}
		if !open {
			continue
		}
		if err := s.b.Click(ctx, sel); err != nil {
			return stepErr("select", ReasonSlot, err)
		}
		s.log.Infow("slot selected", "court", court, "slot", label)

		// Some slots pop a dialog instead of going straight to the cart.
		if err := s.b.WaitFor(ctx, selSelectionOverlay, s.cfg.ProbeTimeout); err == nil {
			if ok, _ := s.b.Exists(ctx, selOverlayContinue); ok {
				if err := s.b.Click(ctx, selOverlayContinue); err != nil {
					return stepErr("select", ReasonSlot, err)
				}
			}
		}
		return nil
	}
	return stepErr("select", ReasonSlot,
		errors.Newf("no open %s slot at %s", s.account.Facility, label))
}

func (s *Session) confirmBooking(ctx context.Context) error {
	if err := s.b.WaitFor(ctx, selAddToCart, s.cfg.StepTimeout); err != nil {
		return confirmErr("confirm", errors.Wrap(err, "add to cart"))
	}
	if err := s.b.Click(ctx, selAddToCart); err != nil {
		return confirmErr("confirm", err)
	}
	if err := s.b.WaitFor(ctx, selBookingHeader, s.cfg.StepTimeout); err != nil {
		return confirmErr("confirm", errors.Wrap(err, "booking prompts"))
	}

	if err := s.b.Fill(ctx, selPhoneField, s.account.Phone); err != nil {
		return confirmErr("confirm", err)
	}
	if err := s.b.Fill(ctx, selReasonField, s.account.BookingReason); err != nil {
		return confirmErr("confirm", err)
	}
	if err := s.b.Click(ctx, selCheckoutNext); err != nil {
		return confirmErr("confirm", err)
	}
	return nil
}

// verifyResult polls for the portal's success or failure marker. Neither
// appearing within the bound is its own failure class so operators know to
// check the portal by hand.
func (s *Session) verifyResult(ctx context.Context) error {
	deadline := time.Now().Add(s.cfg.StepTimeout)
	for {
		if ok, err := s.b.Exists(ctx, selBookingSuccess); err == nil && ok {
			return nil
		}
		if bad, err := s.b.Exists(ctx, selBookingFailure); err == nil && bad {
			return stepErr("verify", ReasonConfirmation, errors.New("portal reported failure"))
		}
		if time.Now().After(deadline) {
			return stepErr("verify", ReasonAmbiguous,
				errors.New("neither success nor failure marker appeared"))
		}
		select {
		case <-ctx.Done():
			return stepErr("verify", ReasonTimeout, ctx.Err())
		case <-time.After(250 * time.Millisecond):
		}
	}
}

func (s *Session) logout(ctx context.Context) error {
	if err := s.b.Click(ctx, selUserMenu); err != nil {
		return err
	}
	if err := s.b.WaitFor(ctx, selLogoutOption, s.cfg.ProbeTimeout); err != nil {
		return err
	}
	if err := s.b.Click(ctx, selLogoutOption); err != nil {
		return err
	}
	return s.b.WaitFor(ctx, selSignedOutMark, s.cfg.ProbeTimeout)
}

// navErr classifies a navigation-state failure: an expired bounded wait is a
// Timeout, anything else a NavigationError. Both are transient.
func navErr(step string, err error) *StepError {
	if errors.Is(err, browser.ErrWaitTimeout) {
		return stepErr(step, ReasonTimeout, err)
	}
	return stepErr(step, ReasonNavigation, err)
}

func confirmErr(step string, err error) *StepError {
	if errors.Is(err, browser.ErrWaitTimeout) {
		return stepErr(step, ReasonTimeout, err)
	}
	return stepErr(step, ReasonConfirmation, err)
}
