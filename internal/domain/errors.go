package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any API call rejected with 401.
// The API client clears the station session before returning it, so
// call sites only need to fall back to the login view.
var ErrUnauthorized = errors.New("session expired or unauthorized")

// ErrShiftNotFound is returned when the shift targeted by an end
// request no longer exists on the server (already auto-closed or
// force-closed by an admin). Callers treat it as stale-state cleanup,
// not a failure.
var ErrShiftNotFound = errors.New("shift not found on server")

// ErrNoEmployee is returned when a shift operation requires a
// selected employee and none is tracked.
var ErrNoEmployee = errors.New("no employee selected")

// ConflictError is the 400 rejection of a start-shift request when
// the branch already has an open shift. ActiveShift identifies the
// holder when the client could resolve it.
type ConflictError struct {
	Message     string
	ActiveShift *Shift
}

func (e *ConflictError) Error() string {
	if e.ActiveShift != nil {
		return fmt.Sprintf("shift already active for %s", e.ActiveShift.EmployeeName())
	}
	if e.Message != "" {
		return e.Message
	}
	return "a shift is already active for this branch"
}

// ValidationError carries a server-supplied 400 message that must be
// surfaced to the operator verbatim as a retryable error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
