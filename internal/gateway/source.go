package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Source produces a sequential stream of gateway events. Next blocks until
// an event arrives, the context is done, or a connection error occurs.
// Errors returned by Next carry a fatal/transient classification that the
// dispatch loop must honor: fatal means stop fetching, transient means log
// and fetch again.
type Source interface {
	// Next fetches the next event in arrival order
	Next(ctx context.Context) (Event, error)

	// Close tears down the underlying connection
	Close() error
}

// ConnError is a connection error with a fatal/transient classification
type ConnError struct {
	Err   error
	fatal bool
}

// NewConnError wraps err with an explicit classification
func NewConnError(err error, fatal bool) *ConnError {
	return &ConnError{Err: err, fatal: fatal}
}

func (e *ConnError) Error() string {
	if e.fatal {
		return fmt.Sprintf("fatal gateway error: %v", e.Err)
	}
	return fmt.Sprintf("transient gateway error: %v", e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As
func (e *ConnError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the connection cannot be recovered
func (e *ConnError) Fatal() bool {
	return e.fatal
}

// IsFatal reports whether err is a connection error classified as fatal.
// Errors that are not ConnError values are treated as transient.
func IsFatal(err error) bool {
	var ce *ConnError
	if errors.As(err, &ce) {
		return ce.Fatal()
	}
	return false
}
