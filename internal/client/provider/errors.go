package provider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is a network failure, timeout or 5xx response.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrUnauthorized is a missing, expired or rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested record or object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRejected is any other client-side (4xx) rejection.
	ErrRejected = errors.New("request rejected")
)

// StatusError is a non-2xx response from the provider. It unwraps to the
// matching sentinel error.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider status %d", e.Code)
	}
	return fmt.Sprintf("provider status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return FromStatus(e.Code)
}

// FromStatus maps an HTTP status code to a sentinel error; nil for 2xx/3xx.
func FromStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound, code == http.StatusNotAcceptable:
		// PostgREST answers 406 when a single-object request matches no row
		return ErrNotFound
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}
