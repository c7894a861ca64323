// Package rest is the shared HTTP access layer: it executes one logical
// request with a bounded timeout and a fixed-count, fixed-delay retry policy,
// and normalizes every failure into the transient/client/auth taxonomy so no
// raw transport error escapes uncategorized.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxAttempts is the total attempt budget per logical request.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 2 * time.Second

	// maxErrorBodySize caps how much of an error response body is read
	// when extracting the remote error message.
	maxErrorBodySize = 64 * 1024
)

// Config tunes the access layer. Zero values fall back to the defaults.
type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Client executes HTTP requests with retry and error normalization.
// Safe for concurrent use; each logical request builds its own *http.Request
// per attempt so non-replayable bodies (multipart uploads) work under retry.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
}

// NewClient creates an access-layer client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}
}

// RequestFunc builds a fresh *http.Request for one attempt.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// GetJSON issues a GET against url and decodes the response into target.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	return c.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, target)
}

// Do executes one logical request. newReq is called once per attempt.
// On HTTP 2xx the body is decoded into target (unless target is nil).
// Transient failures (transport error, 429, 5xx) are retried up to the
// attempt budget with a fixed inter-attempt delay; 4xx failures and decode
// failures are surfaced immediately.
func (c *Client) Do(ctx context.Context, newReq RequestFunc, target any) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return &TransientError{Err: ctx.Err()}
			}
		}
		if ctx.Err() != nil {
			return &TransientError{Err: ctx.Err()}
		}

		req, err := newReq(ctx)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		retryable, err := c.handleResponse(resp, target)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}

	if te, ok := lastErr.(*TransientError); ok {
		return te
	}
	return &TransientError{Err: lastErr}
}

// handleResponse consumes resp and reports whether a failure is retryable.
func (c *Client) handleResponse(resp *http.Response, target any) (retryable bool, err error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if target == nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
			return false, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
		return false, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, &TransientError{Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, &AuthError{StatusCode: resp.StatusCode, Message: remoteMessage(resp.Body)}

	default:
		return false, &ClientError{StatusCode: resp.StatusCode, Message: remoteMessage(resp.Body)}
	}
}

// remoteMessage extracts the error message field most APIs put in failure
// bodies ("message" for the companion backend, "status_message" for the
// metadata service). Returns "" when the body has neither.
func remoteMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Message       string `json:"message"`
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.StatusMessage
}
