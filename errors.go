package restclient

import (
	"errors"
	"fmt"
)

// DefaultErrorMessage is the fallback used when an error response body
// cannot be read. The status code is appended.
const DefaultErrorMessage = "There was a connection error. The server responded with status code "

// Error type constants used in ClientError.Type.
const (
	ErrorTypeValidation = "Validation"
	ErrorTypeTransport  = "Transport"
	ErrorTypeEncoding   = "Encoding"
)

// ErrCacheMiss is returned by cache backends when a key is not found.
var ErrCacheMiss = errors.New("restclient: cache miss")

// HTTPError is returned when the server responds with a status code >= 400.
// Message carries the error response body when it could be read, otherwise
// the default message templated with the status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Method     string
	URL        string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Method != "" && e.URL != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Is compares status codes for errors.Is.
func (e *HTTPError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*HTTPError); ok {
		return e.StatusCode == targetErr.StatusCode
	}
	return false
}

// IsHTTPStatus reports whether err is an *HTTPError carrying the given
// status code.
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == statusCode
	}
	return false
}

// StatusCode extracts the HTTP status code from err, or 0 when err is not
// an *HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// ClientError represents a non-HTTP failure from the client itself:
// configuration validation, transport errors, body encoding.
type ClientError struct {
	Type    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}
