package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType classifies failures of call-log API operations
type ErrorType string

const (
	// ErrorTypeAuth covers credential and token failures; never retried
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeRateLimit is an HTTP 429 from the provider
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeTransient covers network errors and every non-429 HTTP failure
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypeMalformed marks a response body that could not be decoded
	ErrorTypeMalformed ErrorType = "malformed_response"
)

// Error represents a classified call-log API error
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int // HTTP status, 0 for transport-level failures

	// RetryAfter holds the server-directed wait from a 429 response.
	// Valid only when RetryAfterSet is true; a present header with
	// value 0 is meaningful.
	RetryAfter    time.Duration
	RetryAfterSet bool

	Err error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without an underlying cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a classified error around an underlying cause
func Wrap(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeTransient:
		return true
	case ErrorTypeAuth, ErrorTypeMalformed:
		return false
	default:
		return false
	}
}

// TypeOf returns the classification of err. Errors that were never
// classified count as transient: every non-429 failure is recoverable.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeTransient
}

// RetryAfter extracts the server-directed wait from a rate-limit error.
// The second return is false when the response carried no usable
// Retry-After header.
func RetryAfter(err error) (time.Duration, bool) {
	var apiErr *Error
	if stderrors.As(err, &apiErr) && apiErr.RetryAfterSet {
		return apiErr.RetryAfter, true
	}
	return 0, false
}

// IsAuth reports whether err is an authentication failure
func IsAuth(err error) bool {
	return TypeOf(err) == ErrorTypeAuth
}

// IsRateLimit reports whether err is a provider rate-limit rejection
func IsRateLimit(err error) bool {
	var apiErr *Error
	return stderrors.As(err, &apiErr) && apiErr.Type == ErrorTypeRateLimit
}
