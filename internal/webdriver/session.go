package webdriver

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/example/court-booker/internal/browser"
)

// Session adapts one WebDriver session to the browser.Browser capability
// surface. Commands are rate limited so many concurrent sessions don't hammer
// the portal in lockstep.
type Session struct {
	client  *Client
	id      string
	limiter *rate.Limiter
	poll    time.Duration

	closeOnce sync.Once
	closeErr  error
}

// commandRate caps WebDriver commands per session. Chromedriver itself is
// fast; this paces the page interactions the commands cause.
const commandRate = rate.Limit(10)

func newSession(client *Client, id string) *Session {
	return &Session{
		client:  client,
		id:      id,
		limiter: rate.NewLimiter(commandRate, 3),
		poll:    250 * time.Millisecond,
	}
}

// Factory returns a browser.Factory producing one fresh, exclusively owned
// session per call.
func Factory(client *Client, opts Options) browser.Factory {
	return func(ctx context.Context) (browser.Browser, error) {
		id, err := client.NewSession(ctx, opts)
		if err != nil {
			return nil, err
		}
		return newSession(client, id), nil
	}
}

func (s *Session) Open(ctx context.Context, url string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.client.Navigate(ctx, s.id, url)
}

func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	eid, err := s.client.FindElement(ctx, s.id, selector)
	if err != nil {
		return mapElementErr(err)
	}
	return s.client.Click(ctx, s.id, eid)
}

func (s *Session) Fill(ctx context.Context, selector, value string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	eid, err := s.client.FindElement(ctx, s.id, selector)
	if err != nil {
		return mapElementErr(err)
	}
	if err := s.client.Clear(ctx, s.id, eid); err != nil {
		return err
	}
	return s.client.SendKeys(ctx, s.id, eid, value)
}

func (s *Session) WaitFor(ctx context.Context, selector string, bound time.Duration) error {
	deadline := time.Now().Add(bound)
	for {
		ok, err := s.Exists(ctx, selector)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.Wrapf(browser.ErrWaitTimeout, "selector %s", selector)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.poll):
		}
	}
}

func (s *Session) Exists(ctx context.Context, selector string) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	ids, err := s.client.FindElements(ctx, s.id, selector)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (s *Session) Texts(ctx context.Context, selector string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ids, err := s.client.FindElements(ctx, s.id, selector)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(ids))
	for _, eid := range ids {
		t, err := s.client.Text(ctx, s.id, eid)
		if err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return texts, nil
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	b64, err := s.client.Screenshot(ctx, s.id)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(b64)
}

func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.DeleteSession(ctx, s.id)
	})
	return s.closeErr
}

func mapElementErr(err error) error {
	if errors.Is(err, ErrNoSuchElement) {
		return errors.WithSecondaryError(browser.ErrNoSuchElement, err)
	}
	return err
}
