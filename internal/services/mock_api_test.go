package services

import (
	"context"
	"sync"

	"mostrador/internal/domain"
	"mostrador/internal/ports"
)

// fakeAPI implements ports.API with per-method function hooks so each
// test scripts exactly the calls it expects. Unscripted methods
// return zero values.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	loginFn               func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	startShiftFn          func(ctx context.Context, employeeID int) (*domain.Shift, error)
	activeShiftFn         func(ctx context.Context, employeeID int) (*domain.Shift, error)
	endShiftFn            func(ctx context.Context, employeeID int) (*domain.Shift, error)
	currentBranchShiftsFn func(ctx context.Context) ([]domain.Shift, error)
	checkAutoCloseFn      func(ctx context.Context) ([]domain.Shift, error)
	dashboardFn           func(ctx context.Context) ([]domain.BranchStatus, error)
	updateShiftFn         func(ctx context.Context, shift *domain.Shift) error
	employeesFn           func(ctx context.Context) ([]domain.Employee, error)
	maintenanceTasksFn    func(ctx context.Context) ([]domain.MaintenanceTask, error)
	cashRegisterFn        func(ctx context.Context) ([]domain.CashRegister, error)
	saveDailyReportFn     func(ctx context.Context, report domain.DailyReport) error
}

var _ ports.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	f.record("Login")
	if f.loginFn != nil {
		return f.loginFn(ctx, username, password)
	}
	return &ports.LoginResult{}, nil
}

func (f *fakeAPI) StartShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	f.record("StartShift")
	if f.startShiftFn != nil {
		return f.startShiftFn(ctx, employeeID)
	}
	return &domain.Shift{}, nil
}

func (f *fakeAPI) ActiveShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	f.record("ActiveShift")
	if f.activeShiftFn != nil {
		return f.activeShiftFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeAPI) EndShift(ctx context.Context, employeeID int) (*domain.Shift, error) {
	f.record("EndShift")
	if f.endShiftFn != nil {
		return f.endShiftFn(ctx, employeeID)
	}
	return &domain.Shift{}, nil
}

func (f *fakeAPI) CurrentBranchShifts(ctx context.Context) ([]domain.Shift, error) {
	f.record("CurrentBranchShifts")
	if f.currentBranchShiftsFn != nil {
		return f.currentBranchShiftsFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) CheckAutoClose(ctx context.Context) ([]domain.Shift, error) {
	f.record("CheckAutoClose")
	if f.checkAutoCloseFn != nil {
		return f.checkAutoCloseFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) Dashboard(ctx context.Context) ([]domain.BranchStatus, error) {
	f.record("Dashboard")
	if f.dashboardFn != nil {
		return f.dashboardFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) UpdateShift(ctx context.Context, shift *domain.Shift) error {
	f.record("UpdateShift")
	if f.updateShiftFn != nil {
		return f.updateShiftFn(ctx, shift)
	}
	return nil
}

func (f *fakeAPI) Employees(ctx context.Context) ([]domain.Employee, error) {
	f.record("Employees")
	if f.employeesFn != nil {
		return f.employeesFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) MaintenanceTasks(ctx context.Context) ([]domain.MaintenanceTask, error) {
	f.record("MaintenanceTasks")
	if f.maintenanceTasksFn != nil {
		return f.maintenanceTasksFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) CashRegisterEntries(ctx context.Context) ([]domain.CashRegister, error) {
	f.record("CashRegisterEntries")
	if f.cashRegisterFn != nil {
		return f.cashRegisterFn(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) SaveDailyReport(ctx context.Context, report domain.DailyReport) error {
	f.record("SaveDailyReport")
	if f.saveDailyReportFn != nil {
		return f.saveDailyReportFn(ctx, report)
	}
	return nil
}

// memStore is an in-memory ports.SessionStore.
type memStore struct {
	mu      sync.Mutex
	session domain.Session
	hasRow  bool
}

var _ ports.SessionStore = (*memStore)(nil)

func (m *memStore) Load(ctx context.Context) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasRow {
		return domain.Session{}, nil
	}
	return m.session, nil
}

func (m *memStore) Save(ctx context.Context, session domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = session
	m.hasRow = true
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	m.hasRow = false
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) persisted() (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.hasRow
}
