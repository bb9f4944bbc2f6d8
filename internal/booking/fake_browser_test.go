package booking

import (
	"context"
	"sync"
	"time"

	"github.com/example/court-booker/internal/browser"
)

// fakeBrowser is a scriptable browser.Browser. Selectors are "present" or
// not; click hooks mutate presence the way real page transitions do.
type fakeBrowser struct {
	mu         sync.Mutex
	present    map[string]bool
	texts      map[string][]string
	clickHooks map[string]func(f *fakeBrowser)
	clickErr   map[string]error
	openErr    error

	opened     []string
	clicks     []string
	fills      map[string]string
	closeCount int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		present:    make(map[string]bool),
		texts:      make(map[string][]string),
		clickHooks: make(map[string]func(*fakeBrowser)),
		clickErr:   make(map[string]error),
		fills:      make(map[string]string),
	}
}

func (f *fakeBrowser) set(selector string, present bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present[selector] = present
}

func (f *fakeBrowser) onClick(selector string, hook func(*fakeBrowser)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clickHooks[selector] = hook
}

func (f *fakeBrowser) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, url)
	return f.openErr
}

func (f *fakeBrowser) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	hook := f.clickHooks[selector]
	err := f.clickErr[selector]
	f.clicks = append(f.clicks, selector)
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		hook(f)
	}
	return nil
}

func (f *fakeBrowser) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fills[selector] = value
	return nil
}

func (f *fakeBrowser) WaitFor(ctx context.Context, selector string, bound time.Duration) error {
	deadline := time.Now().Add(bound)
	for {
		ok, err := f.Exists(ctx, selector)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return browser.ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func (f *fakeBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.present[selector], nil
}

func (f *fakeBrowser) Texts(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[selector], nil
}

func (f *fakeBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("fake-png"), nil
}

func (f *fakeBrowser) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCount++
	return nil
}

func (f *fakeBrowser) closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCount > 0
}

func (f *fakeBrowser) filled(selector string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fills[selector]
}

func (f *fakeBrowser) clicked(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clicks {
		if c == selector {
			return true
		}
	}
	return false
}

// testAccount matches the scripted portal's happy path.
func testAccount(label string) AccountProfile {
	return AccountProfile{
		Label:         label,
		LoginURL:      "https://portal.example/login",
		Username:      label + "@example.com",
		Password:      "goodpass",
		Facility:      "badminton",
		TimeOfDay:     "7:00pm",
		Phone:         "7095551234",
		BookingReason: "weekly badminton",
	}
}

var testDate = time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

// testSlotLabel is what 7:00pm renders to on the portal grid.
const testSlotLabel = "7:00 pm - 8:00 pm"

// scriptPortal wires f so a full booking for testAccount succeeds: logging in
// with "goodpass" reaches the landing page, the calendar renders two open
// badminton courts, and checkout confirms.
func scriptPortal(f *fakeBrowser) {
	f.set(selLoginUsername, true)
	f.onClick(selLoginButton, func(f *fakeBrowser) {
		if f.filled(selLoginPassword) == "goodpass" {
			f.set(selPostLoginMark, true)
		} else {
			f.set(selLoginError, true)
		}
	})

	f.onClick(selFacilityTile, func(f *fakeBrowser) { f.set(selFacilitySearch, true) })

	f.set(selMonthDropdown, true)
	f.set(selDayDropdown, true)
	f.set(selYearDropdown, true)
	f.set(selListOption("September"), true)
	f.set(selListOption("5"), true)
	f.set(selListOption("2026"), true)

	f.onClick(selSearchButton, func(f *fakeBrowser) { f.set(selSlotGrid, true) })

	f.mu.Lock()
	f.texts[selCourtTitles] = []string{"Badminton 2", "Badminton 1"}
	f.mu.Unlock()
	f.set(selSlotButton("Badminton 1", testSlotLabel), true)
	f.set(selSlotButton("Badminton 2", testSlotLabel), true)
	f.onClick(selSlotButton("Badminton 1", testSlotLabel), func(f *fakeBrowser) { f.set(selAddToCart, true) })
	f.onClick(selSlotButton("Badminton 2", testSlotLabel), func(f *fakeBrowser) { f.set(selAddToCart, true) })

	f.onClick(selAddToCart, func(f *fakeBrowser) { f.set(selBookingHeader, true) })
	f.onClick(selCheckoutNext, func(f *fakeBrowser) { f.set(selBookingSuccess, true) })
}

func fastSessionConfig() SessionConfig {
	return SessionConfig{
		StepTimeout:  150 * time.Millisecond,
		ProbeTimeout: 10 * time.Millisecond,
	}
}
