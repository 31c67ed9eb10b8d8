package apiclient

import (
	"errors"
	"fmt"
)

// ErrNetwork marks failures where no HTTP response was received at all
// (DNS, connection, timeout). Callers can match it with errors.Is.
var ErrNetwork = errors.New("network error")

// ErrSessionExpired is returned when a 401 could not be recovered by the
// refresh flow and the session has been cleared.
var ErrSessionExpired = errors.New("session expired")

// StatusError is returned for any HTTP response outside the 2xx range.
// Message holds the human-readable text extracted from the response body.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// StatusError.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
