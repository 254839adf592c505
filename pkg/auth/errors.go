package auth

import (
	"errors"
	"fmt"
)

// Common errors returned by the authenticator.
var (
	// ErrInvalidConfig is returned when a flow or authenticator
	// configuration fails validation.
	ErrInvalidConfig = errors.New("invalid authenticator configuration")

	// ErrAuthorizationRequired is returned when no usable token or refresh
	// token exists and the flow cannot mint one without user consent.
	ErrAuthorizationRequired = errors.New("authorization required")
)

// ErrorKind classifies a failed token-endpoint interaction.
type ErrorKind string

const (
	// KindInvalidGrant covers rejected codes, verifiers, refresh tokens,
	// and client credentials.
	KindInvalidGrant ErrorKind = "invalid_grant"

	// KindHTTPError covers any other non-2xx token-endpoint response.
	KindHTTPError ErrorKind = "http_error"

	// KindUnexpectedResponse covers 2xx responses whose payload cannot be
	// interpreted as a token.
	KindUnexpectedResponse ErrorKind = "unexpected_response"
)

// Error is a failed token-endpoint interaction with the server's diagnostic
// detail preserved.
type Error struct {
	Kind        ErrorKind
	StatusCode  int
	Code        string // OAuth error code, e.g. "invalid_grant"
	Description string // OAuth error_description, if any
	Body        string // raw response body for unclassified failures
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("token endpoint %s (status %d): %s: %s",
			e.Kind, e.StatusCode, e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("token endpoint %s (status %d): %s",
			e.Kind, e.StatusCode, e.Code)
	case e.Err != nil:
		return fmt.Sprintf("token endpoint %s (status %d): %v",
			e.Kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("token endpoint %s (status %d): %s",
			e.Kind, e.StatusCode, e.Body)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalidGrant reports whether err is a token-endpoint rejection of the
// presented grant (bad code, verifier, refresh token, or client secret).
func IsInvalidGrant(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindInvalidGrant
}
