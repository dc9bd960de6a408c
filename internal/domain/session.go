package domain

// Role of an authenticated account
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleOperator Role = "Operator"
)

// User is the authenticated account for this station.
// A station login is shared: the account identifies the terminal,
// the selected Employee identifies the person behind the counter.
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Branch   string `json:"branch,omitempty"`
}

// Employee is the physical person operating the station for the
// duration of a shift. Distinct from User.
type Employee struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// Session is the station-wide state, persisted across restarts.
// The remote API is the source of truth for everything in here;
// the local copy exists for reload continuity only.
type Session struct {
	Token       string
	User        *User
	Employee    *Employee
	ActiveShift *Shift
	AutoClosed  bool
}

// Authenticated reports whether a token and user are present.
func (s *Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Valid checks the session invariant: an active shift requires a
// selected employee. The reverse is allowed transiently while the
// employee-selection flow is in progress.
func (s *Session) Valid() bool {
	if s.ActiveShift != nil && s.Employee == nil {
		return false
	}
	return true
}
