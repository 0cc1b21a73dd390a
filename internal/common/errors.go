// Package common holds the error values, retry loop and logger setup shared
// by the row sources, the engine and the commands.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Row source errors.
var (
	// ErrNoData means the source has no header row.
	ErrNoData = errors.New("source returned no data")
	// ErrSourceRateLimit means the source asked us to slow down.
	ErrSourceRateLimit = errors.New("source rate limit exceeded")
)

// ErrNotFound is matched by lookups of loads and snapshots that do not exist.
var ErrNotFound = errors.New("not found")

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person at the terminal, with
// the underlying cause attached.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable reports whether a failed source read is worth another try.
// Rate limits and timeouts are; errors explicitly marked permanent are not.
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return retryable.Retryable
	}
	return errors.Is(err, ErrSourceRateLimit) || errors.Is(err, context.DeadlineExceeded)
}
