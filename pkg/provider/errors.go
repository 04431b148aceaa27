package provider

import (
	"errors"
	"fmt"
)

// ErrAlreadyAttached marks a per-item attach conflict. Callers treat the
// item as attached, not as a failure.
var ErrAlreadyAttached = errors.New("item already attached to index")

// ErrNotFound marks a missing provider resource, typically an index that
// expired out-of-band.
var ErrNotFound = errors.New("provider resource not found")

// TransientError wraps failures worth retrying: network errors, timeouts,
// rate limits and provider 5xx responses. Everything else is permanent.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is a retryable provider failure.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsAlreadyAttached reports whether err is a per-item attach conflict.
func IsAlreadyAttached(err error) bool {
	return errors.Is(err, ErrAlreadyAttached)
}

// IsNotFound reports whether err marks a missing provider resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
