package domain

import (
	"fmt"
	"time"
)

// MaxShiftHours is the server-side cap after which the auto-close
// sweep force-closes a shift. Mirrored here for display only.
const MaxShiftHours = 11

// Shift is a time-bounded work session for one employee at one
// branch. Owned by the remote API; this process keeps a read/write
// -through cache of the one it is tracking.
type Shift struct {
	ID         int        `json:"id"`
	EmployeeID int        `json:"employeeId"`
	Employee   *Employee  `json:"employee,omitempty"`
	Branch     string     `json:"branch,omitempty"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	TotalHours float64    `json:"totalHours,omitempty"`
	AutoClosed bool       `json:"autoClosed,omitempty"`
}

// EmployeeName returns the nested employee name when the API included
// it, or a placeholder when it did not.
func (s *Shift) EmployeeName() string {
	if s.Employee != nil && s.Employee.Name != "" {
		return s.Employee.Name
	}
	return "Unknown"
}

// Open reports whether the shift has not been closed yet.
func (s *Shift) Open() bool {
	return s.EndTime == nil
}

// Elapsed returns the display duration since the shift started.
// Not authoritative: the server computes TotalHours with its own
// clock at close time.
func (s *Shift) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// FormatElapsed renders a duration as "3h 25m" for the status bar.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// BranchStatus is one row of the admin dashboard summary.
type BranchStatus struct {
	Branch       string  `json:"branch"`
	EmployeeName string  `json:"employeeName,omitempty"`
	ShiftID      int     `json:"shiftId,omitempty"`
	StartTime    string  `json:"startTime,omitempty"`
	HoursOpen    float64 `json:"hoursOpen,omitempty"`
	HasOpenShift bool    `json:"hasOpenShift"`
}
