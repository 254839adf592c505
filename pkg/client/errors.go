package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Common errors returned by the client.
var (
	// ErrInvalidConfig is wrapped by all configuration validation failures.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrUnauthorized is returned when a request still gets a 401 after the
	// one permitted token refresh.
	ErrUnauthorized = errors.New("unauthorized after token refresh")

	// ErrContextCancelled is returned when the context is cancelled during a
	// request or a retry wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents terminal 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents terminal 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassAuth represents 401 responses.
	ErrorClassAuth ErrorClass = "auth"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport-level failures.
	ErrorClassNetwork ErrorClass = "network"
)

// ConfigError reports an invalid configuration field. Configuration errors
// are detected before any request is made and are never retried.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid client configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfig).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// APIError represents a terminal non-2xx response from the API. For a 401
// that survived the token refresh, Err is ErrUnauthorized.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("API error (status %d): %v: %s", e.StatusCode, e.Err, msg)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// RateLimitError is returned when the 429 retry budget is exhausted. It
// carries the last observed Retry-After value.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       []byte
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (status %d): retry after %s", e.StatusCode, e.RetryAfter)
}

// NetworkError is returned when a transport-level failure survives the
// network retry budget. Attempts counts every send that failed.
type NetworkError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Attempts == 1 {
		return fmt.Sprintf("network failure: %v", e.Err)
	}
	return fmt.Sprintf("network failure after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// classifyStatus buckets an HTTP status for metrics.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusUnauthorized:
		return ErrorClassAuth
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// apiMessage pulls the human-readable message out of an error response
// body, which the API wraps as {"error": {"status": ..., "message": ...}}.
func apiMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// cancelled wraps a context error so callers can test for
// ErrContextCancelled while still reaching the underlying cause.
func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrContextCancelled, err)
}
