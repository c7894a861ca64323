package rest

import (
	"errors"
	"fmt"
)

// TransientError marks a failure that retrying may fix: a transport error,
// a timeout, HTTP 429 or a 5xx response. The access layer retries these up
// to its attempt budget before surfacing the last one.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient request failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// ClientError marks a failure that retrying cannot fix: a 4xx response or
// a malformed request. Message carries the remote error message when the
// response body had one.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request rejected (status %d)", e.StatusCode)
}

// AuthError marks a 401/403 on an authenticated call, surfaced distinctly
// so callers can force a re-login instead of showing a generic failure.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authentication rejected (status %d)", e.StatusCode)
}

// IsTransient reports whether err is a retryable network/server failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsAuth reports whether err is an authentication rejection.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
