package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// Client talks to the shop's REST API. All authenticated calls carry
// the bearer token through a single transport; 401 handling lives
// here and nowhere else.
type Client struct {
	baseURL string
	http    *http.Client

	// token is read per-request so re-login after a wipe needs no new
	// client.
	token func() string

	// onUnauthorized runs once per 401 response, before the call
	// returns domain.ErrUnauthorized. Wired to the session wipe.
	onUnauthorized func()
}

// Verify interface compliance at compile time
var _ ports.API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUnauthorizedHook sets the callback invoked on any 401.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a Client for the given base URL. tokenFn returns
// the current bearer token, or "" when anonymous.
func NewClient(baseURL string, tokenFn func() string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   tokenFn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// httpError is the raw non-2xx result before per-endpoint mapping.
type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// do executes one API call. in is JSON-encoded when non-nil, out is
// JSON-decoded when non-nil and the response has a body. A 401
// triggers the unauthorized hook unless skipAuthHook is set (the
// login endpoint handles its own failures).
func (c *Client) do(ctx context.Context, method, path string, in, out any, skipAuthHook bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !skipAuthHook {
		logging.Logger.Warn("API call unauthorized, clearing session",
			"method", method, "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// readMessage extracts a human-readable message from an error body.
// The API answers sometimes with a bare string, sometimes with
// {"message": "..."}.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var wrapped struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Message != "" {
		return wrapped.Message
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain
	}
	return strings.TrimSpace(string(data))
}
