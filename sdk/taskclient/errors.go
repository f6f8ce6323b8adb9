package taskclient

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the server reports the task does not exist.
var ErrNotFound = errors.New("task not found")

// ValidationError carries the server's rejection message for bad input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// TransportError wraps a network failure or a 5xx response. These are the
// only errors the client retries.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
