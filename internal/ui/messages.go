package ui

import (
	"time"

	"mostrador/internal/domain"
	"mostrador/internal/services"
)

// Result messages. Every remote call runs inside a tea.Cmd and comes
// back as one of these; the model never blocks in Update.

// restoreDoneMsg carries the outcome of the startup session restore.
type restoreDoneMsg struct {
	Shift *domain.Shift
	Err   error
}

// loginDoneMsg carries the outcome of a login attempt.
type loginDoneMsg struct {
	User *domain.User
	Err  error
}

// employeesLoadedMsg carries the employee catalog for the selector,
// plus the branch's open shift when there is one so the selector can
// mark the holder.
type employeesLoadedMsg struct {
	Employees []domain.Employee
	OpenShift *domain.Shift
	Err       error
}

// shiftStartedMsg carries the outcome of starting (or resuming) a shift.
type shiftStartedMsg struct {
	Shift *domain.Shift
	Err   error
}

// reportInputsMsg carries the pre-fetched report inputs (checklist
// tasks and the cash register snapshot).
type reportInputsMsg struct {
	Inputs *services.ReportInputs
	Err    error
}

// shiftClosedMsg carries the outcome of closing the tracked shift.
// A nil Shift with a nil Err means the server had no such shift and
// local state was cleared without a report.
type shiftClosedMsg struct {
	Shift *domain.Shift
	Err   error
}

// reportSavedMsg carries the outcome of persisting the daily report.
type reportSavedMsg struct {
	Err error
}

// autoCloseMsg arrives from the background poller when the sweep
// closed the shift this station was tracking.
type autoCloseMsg struct {
	EmployeeName string
}

// sessionChangedMsg arrives whenever the session manager mutates the
// persisted session, including the 401 wipe from the HTTP layer.
type sessionChangedMsg struct {
	Session domain.Session
}

// dashboardLoadedMsg carries the branch summary rows.
type dashboardLoadedMsg struct {
	Rows []domain.BranchStatus
	Err  error
}

// minuteTickMsg drives the elapsed-time display on the station view.
type minuteTickMsg time.Time

// dismissBannerMsg hides the auto-close banner after its delay.
type dismissBannerMsg struct{}
