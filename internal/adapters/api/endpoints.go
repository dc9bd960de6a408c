package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"mostrador/internal/domain"
	"mostrador/internal/ports"
)

// Login authenticates the station account. Failures do not trigger
// the global unauthorized hook; the caller shows the error and stays
// on the login view.
func (c *Client) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	var resp struct {
		Token    string      `json:"token"`
		Username string      `json:"username"`
		Role     domain.Role `json:"role"`
		Branch   string      `json:"branch"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &resp, true); err != nil {
		var herr *httpError
		if errors.As(err, &herr) {
			if herr.Message != "" {
				return nil, fmt.Errorf("login failed: %s", herr.Message)
			}
			return nil, errors.New("login failed: invalid credentials")
		}
		return nil, err
	}

	return &ports.LoginResult{
		Token: resp.Token,
		User: domain.User{
			Username: resp.Username,
			Role:     resp.Role,
			Branch:   resp.Branch,
		},
	}, nil
}

// StartShift opens a shift for the employee. A 400 means the branch
// already has an open shift and maps to *domain.ConflictError; the
// caller decides whether that shift can be adopted.
func (c *Client) StartShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	var shift domain.Shift
	// The endpoint takes the bare employee id as the JSON body.
	err := c.do(ctx, http.MethodPost, "/shifts/start", employeeID, &shift, false)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.Status == http.StatusBadRequest {
			return nil, &domain.ConflictError{Message: herr.Message}
		}
		return nil, err
	}
	return &shift, nil
}

// ActiveShift fetches the currently open shift for an employee.
func (c *Client) ActiveShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	var shift domain.Shift
	path := fmt.Sprintf("/shifts/active/%d", employeeID)
	if err := c.do(ctx, http.MethodGet, path, nil, &shift, false); err != nil {
		return nil, err
	}
	return &shift, nil
}

// EndShift closes the employee's shift. 404 maps to
// domain.ErrShiftNotFound (stale local state, nothing to report);
// 400 maps to *domain.ValidationError with the server's message.
func (c *Client) EndShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	var shift domain.Shift
	err := c.do(ctx, http.MethodPost, "/shifts/end", employeeID, &shift, false)
	if err != nil {
		var herr *httpError
		if errors.As(err, &herr) {
			switch herr.Status {
			case http.StatusNotFound:
				return nil, domain.ErrShiftNotFound
			case http.StatusBadRequest:
				return nil, &domain.ValidationError{Message: herr.Message}
			}
		}
		return nil, err
	}
	return &shift, nil
}

// CurrentBranchShifts lists open shifts on the station's branch
// (zero or one under the per-branch exclusivity rule).
func (c *Client) CurrentBranchShifts(ctx context.Context) ([]domain.Shift, error) {
	var shifts []domain.Shift
	if err := c.do(ctx, http.MethodGet, "/shifts/current-branch", nil, &shifts, false); err != nil {
		return nil, err
	}
	return shifts, nil
}

// CheckAutoClose triggers the server-side sweep that force-closes
// shifts over the duration cap, returning the shifts it closed.
func (c *Client) CheckAutoClose(ctx context.Context) ([]domain.Shift, error) {
	var resp struct {
		ClosedShifts []domain.Shift `json:"closedShifts"`
	}
	if err := c.do(ctx, http.MethodPost, "/shifts/check-auto-close", nil, &resp, false); err != nil {
		return nil, err
	}
	return resp.ClosedShifts, nil
}

// Dashboard returns the per-branch shift summary.
func (c *Client) Dashboard(ctx context.Context) ([]domain.BranchStatus, error) {
	var rows []domain.BranchStatus
	if err := c.do(ctx, http.MethodGet, "/shifts/dashboard", nil, &rows, false); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateShift applies an admin correction to a shift record.
func (c *Client) UpdateShift(ctx context.Context, shift *domain.Shift) error {
	path := fmt.Sprintf("/shifts/%d", shift.ID)
	return c.do(ctx, http.MethodPut, path, shift, nil, false)
}

// Employees lists employees available for shift selection.
func (c *Client) Employees(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &employees, false); err != nil {
		return nil, err
	}
	return employees, nil
}

// MaintenanceTasks lists the maintenance checklist definitions.
func (c *Client) MaintenanceTasks(ctx context.Context) ([]domain.MaintenanceTask, error) {
	var tasks []domain.MaintenanceTask
	if err := c.do(ctx, http.MethodGet, "/maintenancetasks", nil, &tasks, false); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CashRegisterEntries lists cash register snapshots.
func (c *Client) CashRegisterEntries(ctx context.Context) ([]domain.CashRegister, error) {
	var entries []domain.CashRegister
	if err := c.do(ctx, http.MethodGet, "/cashregister", nil, &entries, false); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveDailyReport persists the end-of-shift report. Write-once: the
// caller never mutates a saved report, and a failure here is
// retryable without re-closing the shift.
func (c *Client) SaveDailyReport(ctx context.Context, report domain.DailyReport) error {
	return c.do(ctx, http.MethodPost, "/dailyreports", report, nil, false)
}
