package ports

import (
	"context"

	"mostrador/internal/domain"
)

// LoginResult is the successful response of the login endpoint.
type LoginResult struct {
	Token string
	User  domain.User
}

// AuthAPI authenticates the station against the remote API.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// ShiftAPI covers the shift lifecycle endpoints. Error contract:
// StartShift returns *domain.ConflictError on a 400 conflict,
// EndShift returns domain.ErrShiftNotFound on 404 and
// *domain.ValidationError on 400; any call may return
// domain.ErrUnauthorized.
type ShiftAPI interface {
	StartShift(ctx context.Context, employeeID int) (*domain.Shift, error)
	ActiveShift(ctx context.Context, employeeID int) (*domain.Shift, error)
	EndShift(ctx context.Context, employeeID int) (*domain.Shift, error)
	CurrentBranchShifts(ctx context.Context) ([]domain.Shift, error)
	CheckAutoClose(ctx context.Context) ([]domain.Shift, error)
	Dashboard(ctx context.Context) ([]domain.BranchStatus, error)
	UpdateShift(ctx context.Context, shift *domain.Shift) error
}

// CatalogAPI reads the collections feeding employee selection and
// report composition.
type CatalogAPI interface {
	Employees(ctx context.Context) ([]domain.Employee, error)
	MaintenanceTasks(ctx context.Context) ([]domain.MaintenanceTask, error)
	CashRegisterEntries(ctx context.Context) ([]domain.CashRegister, error)
}

// ReportAPI persists end-of-shift reports.
type ReportAPI interface {
	SaveDailyReport(ctx context.Context, report domain.DailyReport) error
}

// API is the composite interface over the remote REST API.
type API interface {
	AuthAPI
	ShiftAPI
	CatalogAPI
	ReportAPI
}
