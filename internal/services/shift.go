package services

import (
	"context"
	"errors"
	"time"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// ShiftService coordinates the shift lifecycle for this station:
// employee selection with resume semantics, shift end with its
// differentiated 404/400 handling, the periodic auto-close sweep, and
// session restore after a restart.
//
// Transitions race by design (the poll timer and the operator can
// finish at the same time), so every completion handler re-checks the
// tracked employee/shift identity inside the SessionManager lock
// before mutating, and discards itself when stale.
type ShiftService struct {
	api      ports.ShiftAPI
	sessions *SessionManager
}

// NewShiftService creates a new ShiftService
func NewShiftService(api ports.ShiftAPI, sessions *SessionManager) *ShiftService {
	return &ShiftService{api: api, sessions: sessions}
}

// stillTracking reports whether the session still tracks the
// employee/shift identity a completion handler started with.
func stillTracking(s *domain.Session, employeeID, shiftID int) bool {
	if s.Employee == nil || s.Employee.ID != employeeID {
		return false
	}
	if shiftID != 0 && s.ActiveShift != nil && s.ActiveShift.ID != shiftID {
		return false
	}
	return true
}

// SelectEmployee starts (or resumes) a shift for the employee.
//
// A conflict rejection is recoverable when the branch's active shift
// already belongs to the requested employee: the controller adopts it
// instead of failing, which is what lets a page-refresh or dropped
// connection mid-shift resume without creating a duplicate. A
// conflict held by a different employee is returned to the caller
// with the holder attached, and local state is untouched.
func (s *ShiftService) SelectEmployee(ctx context.Context, employeeID int, employeeName string) (*domain.Shift, error) {
	shift, err := s.api.StartShift(ctx, employeeID)
	if err != nil {
		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}

		// Branch already has an open shift. Adopt it if it is ours.
		active, fetchErr := s.api.ActiveShift(ctx, employeeID)
		if fetchErr == nil && active != nil && active.ID != 0 && active.EmployeeID == employeeID {
			logging.Logger.Info("Resuming existing shift",
				"employee_id", employeeID, "shift_id", active.ID)
			shift = active
		} else {
			// Not ours: surface who holds it so the operator knows
			// why they cannot start one.
			if conflict.ActiveShift == nil {
				if branchShifts, berr := s.api.CurrentBranchShifts(ctx); berr == nil {
					for i := range branchShifts {
						if branchShifts[i].Open() {
							conflict.ActiveShift = &branchShifts[i]
							break
						}
					}
				}
			}
			logging.Logger.Warn("Shift start rejected",
				"employee_id", employeeID, "error", conflict)
			return nil, conflict
		}
	}

	employee := domain.Employee{ID: employeeID, Name: employeeName}
	s.sessions.Update(ctx, func(session *domain.Session) {
		session.Employee = &employee
		session.ActiveShift = shift
		session.AutoClosed = false
	})

	logging.Logger.Info("Shift active",
		"employee", employeeName, "shift_id", shift.ID, "start_time", shift.StartTime)
	return shift, nil
}

// EndShift closes the tracked employee's shift.
//
// 200: local state is cleared and the closed shift (with the
// server-computed hours) is returned for report composition.
// 404: the shift no longer exists (auto-closed or force-closed since
// the last poll); local state is cleared anyway and (nil, nil) is
// returned — nothing left to report on, not an error.
// 400: the server message is returned verbatim as a retryable
// *domain.ValidationError and local state is left untouched.
func (s *ShiftService) EndShift(ctx context.Context) (*domain.Shift, error) {
	snapshot := s.sessions.Snapshot()
	if snapshot.Employee == nil {
		return nil, domain.ErrNoEmployee
	}
	employeeID := snapshot.Employee.ID
	trackedShiftID := 0
	if snapshot.ActiveShift != nil {
		trackedShiftID = snapshot.ActiveShift.ID
	}

	closed, err := s.api.EndShift(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrShiftNotFound) {
			logging.Logger.Warn("Shift not found on server, clearing local state",
				"employee_id", employeeID, "shift_id", trackedShiftID)
			s.clearTracked(ctx, employeeID, trackedShiftID, false)
			return nil, nil
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			logging.Logger.Warn("End shift rejected by server",
				"employee_id", employeeID, "message", verr.Message)
		}
		return nil, err
	}

	s.clearTracked(ctx, employeeID, trackedShiftID, false)
	logging.Logger.Info("Shift ended",
		"employee_id", employeeID, "shift_id", closed.ID, "total_hours", closed.TotalHours)
	return closed, nil
}

// CheckAutoClose runs the server-side sweep and reconciles local
// state with its result set. Level-triggered: there is no push
// channel, so "was I affected" is re-derived on every tick. Safe to
// call with no authenticated session (no-op). Returns whether the
// tracked shift was swept.
func (s *ShiftService) CheckAutoClose(ctx context.Context) (bool, error) {
	snapshot := s.sessions.Snapshot()
	if !snapshot.Authenticated() {
		return false, nil
	}

	closedShifts, err := s.api.CheckAutoClose(ctx)
	if err != nil {
		return false, err
	}

	if snapshot.Employee == nil || snapshot.ActiveShift == nil {
		return false, nil
	}

	employeeID := snapshot.Employee.ID
	trackedShiftID := snapshot.ActiveShift.ID
	for _, closed := range closedShifts {
		if closed.EmployeeID == employeeID {
			logging.Logger.Info("Tracked shift was auto-closed by the server",
				"employee_id", employeeID, "shift_id", closed.ID)
			return s.clearTracked(ctx, employeeID, trackedShiftID, true), nil
		}
	}
	return false, nil
}

// clearTracked clears employee/shift if the session still tracks the
// given identity, setting the auto-closed flag when asked. Returns
// whether the clear was applied (false means a concurrent transition
// won and this completion was stale).
func (s *ShiftService) clearTracked(ctx context.Context, employeeID, shiftID int, autoClosed bool) bool {
	applied := false
	s.sessions.Update(ctx, func(session *domain.Session) {
		if !stillTracking(session, employeeID, shiftID) {
			logging.Logger.Debug("Discarding stale shift completion",
				"employee_id", employeeID, "shift_id", shiftID)
			return
		}
		session.Employee = nil
		session.ActiveShift = nil
		if autoClosed {
			session.AutoClosed = true
		}
		applied = true
	})
	return applied
}

// Restore re-derives the station's shift context after a restart:
// run the sweep as a cleanup pass, then look for an open shift on the
// branch. A shift matching the cached employee is adopted silently; a
// different employee's shift is adopted too (fallback-to-first-
// active), because the physical station should always reflect
// whatever shift its branch actually has open. Only runs for
// operator accounts with no cached shift.
func (s *ShiftService) Restore(ctx context.Context) (*domain.Shift, error) {
	snapshot := s.sessions.Snapshot()
	if !snapshot.Authenticated() || snapshot.User.Role != domain.RoleOperator {
		return nil, nil
	}
	if snapshot.ActiveShift != nil {
		return snapshot.ActiveShift, nil
	}

	// Cleanup pass first so an 11h-stale shift doesn't get adopted.
	if _, err := s.api.CheckAutoClose(ctx); err != nil {
		logging.Logger.Warn("Auto-close sweep failed during restore", "error", err)
	}

	branchShifts, err := s.api.CurrentBranchShifts(ctx)
	if err != nil {
		return nil, err
	}
	if len(branchShifts) == 0 {
		return nil, nil
	}

	shift := &branchShifts[0]
	if snapshot.Employee != nil {
		for i := range branchShifts {
			if branchShifts[i].EmployeeID == snapshot.Employee.ID {
				shift = &branchShifts[i]
				break
			}
		}
	}

	employee := domain.Employee{ID: shift.EmployeeID, Name: shift.EmployeeName()}
	s.sessions.Update(ctx, func(session *domain.Session) {
		session.Employee = &employee
		session.ActiveShift = shift
	})

	logging.Logger.Info("Restored active shift",
		"employee", employee.Name, "shift_id", shift.ID)
	return shift, nil
}

// BranchOpenShift returns the branch's currently open shift, nil
// when none. Used by the employee selector to mark the holder.
func (s *ShiftService) BranchOpenShift(ctx context.Context) (*domain.Shift, error) {
	branchShifts, err := s.api.CurrentBranchShifts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range branchShifts {
		if branchShifts[i].Open() {
			return &branchShifts[i], nil
		}
	}
	return nil, nil
}

// DismissAutoClose clears the auto-close notification flag after the
// operator has seen the banner.
func (s *ShiftService) DismissAutoClose(ctx context.Context) {
	s.sessions.Update(ctx, func(session *domain.Session) {
		session.AutoClosed = false
	})
}

// Elapsed returns the display duration of the tracked shift, or zero
// when none is tracked. Derived, never persisted; the server computes
// the authoritative hours at close time.
func (s *ShiftService) Elapsed(now time.Time) time.Duration {
	snapshot := s.sessions.Snapshot()
	if snapshot.ActiveShift == nil {
		return 0
	}
	return snapshot.ActiveShift.Elapsed(now)
}
