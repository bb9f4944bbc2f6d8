// Package browser defines the capability surface a booking session needs from
// a driven browser. The production implementation lives in internal/webdriver;
// tests substitute a scripted fake.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by WaitFor when the selector never appeared
// within the bound.
var ErrWaitTimeout = errors.New("wait timeout")

// ErrNoSuchElement is returned by Click, Fill and Texts when the selector
// matches nothing.
var ErrNoSuchElement = errors.New("no such element")

// Browser is one exclusive automation handle. Implementations are not safe for
// concurrent use; each booking session owns its own.
type Browser interface {
	// Open navigates to url and blocks until the page load settles.
	Open(ctx context.Context, url string) error

	// Click clicks the first element matching the XPath selector.
	Click(ctx context.Context, selector string) error

	// Fill clears the first element matching selector and types value into it.
	Fill(ctx context.Context, selector, value string) error

	// WaitFor polls until an element matching selector is present or the
	// bound expires, in which case it returns ErrWaitTimeout.
	WaitFor(ctx context.Context, selector string, bound time.Duration) error

	// Exists reports whether at least one element matches selector right now.
	Exists(ctx context.Context, selector string) (bool, error)

	// Texts returns the visible text of every element matching selector, in
	// document order.
	Texts(ctx context.Context, selector string) ([]string, error)

	// Screenshot captures the current page as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the underlying browser resource. Safe to call more than
	// once.
	Close(ctx context.Context) error
}

// Factory produces a fresh Browser for one session attempt.
type Factory func(ctx context.Context) (Browser, error)
