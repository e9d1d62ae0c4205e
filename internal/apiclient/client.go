package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vox-console/pkg/logger"

	"github.com/google/uuid"
)

// Observer receives one callback per completed round trip.
// status is 0 when the request never got a response.
type Observer interface {
	ObserveRequest(method, resource string, status int, dur time.Duration)
}

// Client is a thin JSON client for the control-plane REST API.
// It performs exactly one round trip per call: no retries, no caching, no timeout of its own.
// Cancellation and deadlines come from the caller's context.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *slog.Logger
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// RequestOptions describes one call. A nil Body sends no body.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Request sends one request and decodes a 2xx JSON response into out (if non-nil).
// 204 decodes nothing. Non-2xx responses return *Error.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rid := logger.RequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set(logger.HeaderRequestID, rid)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	dur := time.Since(start)
	resource := resourceOf(endpoint)
	if err != nil {
		c.observe(method, resource, 0, dur)
		c.log.Warn("api request failed", "method", method, "endpoint", endpoint, "request_id", rid, "err", err)
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, endpoint, err)
	}
	defer resp.Body.Close()

	c.observe(method, resource, resp.StatusCode, dur)
	c.log.Debug("api request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", float64(dur.Milliseconds()),
		"request_id", rid,
	)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrRequestFailed, method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodGet}, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPost, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPatch, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodDelete}, nil)
}

func (c *Client) observe(method, resource string, status int, dur time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, resource, status, dur)
	}
}

// resourceOf maps "/api/v1/tools/abc/test?x=1" to "tools" so metric labels stay bounded.
func resourceOf(endpoint string) string {
	p := endpoint
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimPrefix(p, "/api/v1/")
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
