package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Session supplies the bearer token and is cleared when the server rejects it.
// ClearAuthIf must only clear while the session still holds token.
type Session interface {
	AccessToken() string
	ClearAuthIf(token string) bool
}

// Client is the Planit API client.
type Client struct {
	baseURL        string
	session        Session
	httpClient     *http.Client
	limiter        *rate.Limiter
	onUnauthorized func()
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. The default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithOnUnauthorized sets the hook run after a 401 clears the session,
// typically to send the user back to the login screen.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client. session may be nil for anonymous use.
func New(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// envelope unwraps responses of the form {"data": ...}.
type envelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken()
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// Read at request time so a login or logout between calls takes effect.
	token := c.token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		var httpErr *HTTPError
		if readErr != nil {
			httpErr = &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		} else {
			httpErr = parseErrorBody(resp.StatusCode, respBody)
		}
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.handleUnauthorized(path, token)
			return fmt.Errorf("%w: %w", ErrUnauthorized, httpErr)
		}
		return httpErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized clears the session and fires the redirect hook.
// Only called for requests that carried a token; an anonymous 401 is just
// a failed request. A 401 for a token that was already replaced (the user
// signed in again while the request was in flight) changes nothing.
func (c *Client) handleUnauthorized(path, token string) {
	if c.session == nil || !c.session.ClearAuthIf(token) {
		c.logger.Debug("api rejected a replaced token, keeping session", "path", path)
		return
	}
	c.logger.Warn("api rejected token, clearing session", "path", path)
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
