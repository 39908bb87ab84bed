package ai

import (
	"errors"
	"fmt"
)

// Sentinel errors for outcomes that carry no payload.
var (
	// ErrEmptyResponse means the provider returned a well-formed but
	// content-less reply.
	ErrEmptyResponse = errors.New("empty response from provider")

	// ErrUnsafeInput is the safeguard veto. The message is user-facing.
	ErrUnsafeInput = errors.New("your input was flagged as potentially unsafe; please provide only personal context information")
)

// RequestError wraps a transport-level failure, including timeouts.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("provider request failed: %v", e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the provider. Status and body are
// surfaced verbatim, never re-interpreted.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string { return fmt.Sprintf("provider error (%d): %s", e.Status, e.Body) }

// ParseError wraps a failure to decode a successful response body.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse provider response: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError is a call-time configuration problem, such as a missing
// API-key environment variable. The operator can fix it without a restart;
// structural config errors are caught at load time by the registry.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Msg }

// InvalidModelError means the requested preset id is not in the registry.
// Returned before any network call is made.
type InvalidModelError struct {
	ID string
}

func (e *InvalidModelError) Error() string { return fmt.Sprintf("invalid model: %s", e.ID) }
