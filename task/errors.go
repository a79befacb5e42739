package task

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotAccepting is returned by managers that are shutting down or
	// have been shut down.
	ErrNotAccepting = errors.New("not accepting new requests")

	// ErrBadArgument is returned when a request names an identifier that is
	// not valid for the requested operation.
	ErrBadArgument = errors.New("bad argument")

	// ErrShutdownTimedOut is returned when the workers did not terminate
	// before the shutdown deadline.
	ErrShutdownTimedOut = errors.New("shutdown timed out")

	// ErrShutdownFailed is returned by every shutdown attempt once a
	// previous shutdown has failed.
	ErrShutdownFailed = errors.New("shutdown failed")
)

// ShutdownError reports a shutdown that failed for a reason other than its
// deadline. It matches ErrShutdownFailed and unwraps to its cause.
type ShutdownError struct {
	Cause error
}

// Error implements the error interface.
func (e *ShutdownError) Error() string {
	return fmt.Sprintf("%s: %v", ErrShutdownFailed, e.Cause)
}

// Unwrap returns the cause of the failure.
func (e *ShutdownError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrShutdownFailed.
func (e *ShutdownError) Is(target error) bool {
	return target == ErrShutdownFailed
}

// ShutdownErr maps the error returned while waiting for workers to exit to
// ErrShutdownTimedOut or a *ShutdownError.
func ShutdownErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrShutdownTimedOut, err)
	default:
		return &ShutdownError{Cause: err}
	}
}
