// Package webdriver is a minimal W3C WebDriver client, covering just the
// commands the booking workflow needs: session lifecycle, navigation, XPath
// element lookup, click, keys, text and screenshots. It talks straight to a
// chromedriver (or any W3C remote end) over HTTP.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// elementKey is the W3C web element identifier key.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// ErrNoSuchElement maps the remote end's "no such element" error.
var ErrNoSuchElement = errors.New("webdriver: no such element")

type Client struct {
	hc   *http.Client
	base string
}

// NewClient points at a WebDriver remote end, e.g. "http://localhost:9515".
func NewClient(baseURL string) *Client {
	return &Client{
		hc:   &http.Client{Timeout: 60 * time.Second},
		base: strings.TrimRight(baseURL, "/"),
	}
}

// Options shape the browser a new session gets.
type Options struct {
	Headless   bool
	WindowSize string // "1920,1080"
	Binary     string // optional chrome binary path
}

func (o Options) chromeArgs() []string {
	args := []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--disable-extensions",
		"--start-maximized",
	}
	if o.Headless {
		args = append(args, "--headless")
	}
	size := o.WindowSize
	if size == "" {
		size = "1920,1080"
	}
	return append(args, "--window-size="+size)
}

// NewSession creates a browser session. The caller owns it exclusively and
// must Delete it.
func (c *Client) NewSession(ctx context.Context, opts Options) (string, error) {
	chromeOpts := map[string]any{"args": opts.chromeArgs()}
	if opts.Binary != "" {
		chromeOpts["binary"] = opts.Binary
	}
	payload := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": map[string]any{
				"browserName":        "chrome",
				"goog:chromeOptions": chromeOpts,
			},
		},
	}

	var res struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.do(ctx, http.MethodPost, "/session", payload, &res); err != nil {
		return "", errors.Wrap(err, "create session")
	}
	if res.SessionID == "" {
		return "", errors.New("webdriver: empty session id")
	}
	return res.SessionID, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/session/"+id, nil, nil)
}

func (c *Client) Navigate(ctx context.Context, id, url string) error {
	return c.do(ctx, http.MethodPost, "/session/"+id+"/url", map[string]string{"url": url}, nil)
}

// FindElement locates the first element matching the XPath selector.
func (c *Client) FindElement(ctx context.Context, id, xpath string) (string, error) {
	var res map[string]string
	err := c.do(ctx, http.MethodPost, "/session/"+id+"/element",
		map[string]string{"using": "xpath", "value": xpath}, &res)
	if err != nil {
		return "", err
	}
	eid, ok := res[elementKey]
	if !ok {
		return "", errors.New("webdriver: malformed element response")
	}
	return eid, nil
}

func (c *Client) FindElements(ctx context.Context, id, xpath string) ([]string, error) {
	var res []map[string]string
	err := c.do(ctx, http.MethodPost, "/session/"+id+"/elements",
		map[string]string{"using": "xpath", "value": xpath}, &res)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res))
	for _, m := range res {
		if eid, ok := m[elementKey]; ok {
			ids = append(ids, eid)
		}
	}
	return ids, nil
}

func (c *Client) Click(ctx context.Context, id, elementID string) error {
	return c.do(ctx, http.MethodPost,
		"/session/"+id+"/element/"+elementID+"/click", struct{}{}, nil)
}

func (c *Client) Clear(ctx context.Context, id, elementID string) error {
	return c.do(ctx, http.MethodPost,
		"/session/"+id+"/element/"+elementID+"/clear", struct{}{}, nil)
}

func (c *Client) SendKeys(ctx context.Context, id, elementID, text string) error {
	return c.do(ctx, http.MethodPost,
		"/session/"+id+"/element/"+elementID+"/value", map[string]string{"text": text}, nil)
}

func (c *Client) Text(ctx context.Context, id, elementID string) (string, error) {
	var text string
	err := c.do(ctx, http.MethodGet, "/session/"+id+"/element/"+elementID+"/text", nil, &text)
	return text, err
}

// Screenshot returns the base64 PNG the remote end captured.
func (c *Client) Screenshot(ctx context.Context, id string) (string, error) {
	var b64 string
	err := c.do(ctx, http.MethodGet, "/session/"+id+"/screenshot", nil, &b64)
	return b64, err
}

// do issues one WebDriver command and decodes its {"value": ...} envelope
// into out. Remote-end errors come back as typed Go errors.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jb, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(jb)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return errors.Wrapf(err, "webdriver: bad response (status=%d)", res.StatusCode)
		}
	}

	if res.StatusCode >= 400 {
		var werr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(envelope.Value, &werr)
		if werr.Error == "no such element" {
			return ErrNoSuchElement
		}
		if werr.Error != "" {
			return errors.Newf("webdriver: %s: %s", werr.Error, werr.Message)
		}
		return errors.Newf("webdriver: command failed (status=%d)", res.StatusCode)
	}

	if out != nil && len(envelope.Value) > 0 {
		if err := json.Unmarshal(envelope.Value, out); err != nil {
			return errors.Wrap(err, "webdriver: decode value")
		}
	}
	return nil
}
