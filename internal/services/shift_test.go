package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostrador/internal/domain"
)

func newTestSessionManager(t *testing.T, initial domain.Session) (*SessionManager, *memStore) {
	t.Helper()
	store := &memStore{}
	if initial.Token != "" || initial.User != nil {
		require.NoError(t, store.Save(context.Background(), initial))
	}
	manager, err := NewSessionManager(context.Background(), store)
	require.NoError(t, err)
	return manager, store
}

func operatorSession() domain.Session {
	return domain.Session{
		Token: "tok",
		User:  &domain.User{Username: "caja1", Role: domain.RoleOperator, Branch: "Centro"},
	}
}

func trackingSession(employeeID, shiftID int) domain.Session {
	s := operatorSession()
	s.Employee = &domain.Employee{ID: employeeID, Name: "Ana"}
	s.ActiveShift = &domain.Shift{ID: shiftID, EmployeeID: employeeID, StartTime: time.Now().Add(-2 * time.Hour)}
	return s
}

func TestSelectEmployee_StartsNewShift(t *testing.T) {
	sessions, store := newTestSessionManager(t, operatorSession())
	api := &fakeAPI{
		startShiftFn: func(_ context.Context, employeeID int) (*domain.Shift, error) {
			return &domain.Shift{ID: 42, EmployeeID: employeeID, StartTime: time.Now()}, nil
		},
	}
	service := NewShiftService(api, sessions)

	shift, err := service.SelectEmployee(context.Background(), 7, "Ana")
	require.NoError(t, err)
	assert.Equal(t, 42, shift.ID)

	snapshot := sessions.Snapshot()
	require.NotNil(t, snapshot.Employee)
	assert.Equal(t, 7, snapshot.Employee.ID)
	require.NotNil(t, snapshot.ActiveShift)
	assert.Equal(t, 42, snapshot.ActiveShift.ID)

	persisted, ok := store.persisted()
	require.True(t, ok, "session written through to the store")
	assert.Equal(t, 42, persisted.ActiveShift.ID)
}

func TestSelectEmployee_ResumesOwnActiveShift(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	api := &fakeAPI{
		startShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, &domain.ConflictError{Message: "turno ya activo"}
		},
		activeShiftFn: func(_ context.Context, employeeID int) (*domain.Shift, error) {
			return &domain.Shift{ID: 42, EmployeeID: employeeID}, nil
		},
	}
	service := NewShiftService(api, sessions)

	shift, err := service.SelectEmployee(context.Background(), 7, "Ana")
	require.NoError(t, err, "same-employee conflict resolves by adoption")
	assert.Equal(t, 42, shift.ID)
	assert.Equal(t, 42, sessions.Snapshot().ActiveShift.ID)
}

func TestSelectEmployee_IdempotentResume(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	created := false
	api := &fakeAPI{}
	api.startShiftFn = func(_ context.Context, employeeID int) (*domain.Shift, error) {
		if created {
			return nil, &domain.ConflictError{Message: "turno ya activo"}
		}
		created = true
		return &domain.Shift{ID: 42, EmployeeID: employeeID}, nil
	}
	api.activeShiftFn = func(_ context.Context, employeeID int) (*domain.Shift, error) {
		return &domain.Shift{ID: 42, EmployeeID: employeeID}, nil
	}
	service := NewShiftService(api, sessions)

	first, err := service.SelectEmployee(context.Background(), 7, "Ana")
	require.NoError(t, err)
	second, err := service.SelectEmployee(context.Background(), 7, "Ana")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "no duplicate shift is created")
}

func TestSelectEmployee_ConflictWithOtherEmployeeFails(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	api := &fakeAPI{
		startShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, &domain.ConflictError{Message: "turno ya activo"}
		},
		activeShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, nil // requested employee has no shift of their own
		},
		currentBranchShiftsFn: func(context.Context) ([]domain.Shift, error) {
			return []domain.Shift{{ID: 9, EmployeeID: 3, Employee: &domain.Employee{ID: 3, Name: "Bruno"}}}, nil
		},
	}
	service := NewShiftService(api, sessions)

	_, err := service.SelectEmployee(context.Background(), 7, "Ana")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NotNil(t, conflict.ActiveShift, "conflict names the holder")
	assert.Equal(t, "Bruno", conflict.ActiveShift.EmployeeName())

	snapshot := sessions.Snapshot()
	assert.Nil(t, snapshot.Employee, "hard failure leaves local state untouched")
	assert.Nil(t, snapshot.ActiveShift)
}

func TestEndShift_Success(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	api := &fakeAPI{
		endShiftFn: func(_ context.Context, employeeID int) (*domain.Shift, error) {
			end := time.Now()
			return &domain.Shift{ID: 42, EmployeeID: employeeID, EndTime: &end, TotalHours: 8.0}, nil
		},
	}
	service := NewShiftService(api, sessions)

	closed, err := service.EndShift(context.Background())
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, 8.0, closed.TotalHours)

	snapshot := sessions.Snapshot()
	assert.Nil(t, snapshot.Employee)
	assert.Nil(t, snapshot.ActiveShift)
	assert.NotNil(t, snapshot.User, "login survives shift end")
}

func TestEndShift_NotFoundClearsStateWithoutError(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	api := &fakeAPI{
		endShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, domain.ErrShiftNotFound
		},
	}
	service := NewShiftService(api, sessions)

	closed, err := service.EndShift(context.Background())
	assert.NoError(t, err, "404 is stale-state cleanup, not a failure")
	assert.Nil(t, closed, "nil shift signals no report to generate")

	snapshot := sessions.Snapshot()
	assert.Nil(t, snapshot.Employee)
	assert.Nil(t, snapshot.ActiveShift)
}

func TestEndShift_ValidationErrorKeepsState(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	api := &fakeAPI{
		endShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, &domain.ValidationError{Message: "El turno debe durar al menos 15 minutos"}
		},
	}
	service := NewShiftService(api, sessions)

	_, err := service.EndShift(context.Background())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El turno debe durar al menos 15 minutos", verr.Message)

	snapshot := sessions.Snapshot()
	assert.NotNil(t, snapshot.Employee, "retryable rejection leaves state for a retry")
	assert.NotNil(t, snapshot.ActiveShift)
}

func TestEndShift_RequiresSelectedEmployee(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	service := NewShiftService(&fakeAPI{}, sessions)

	_, err := service.EndShift(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoEmployee)
}

func TestCheckAutoClose_SweepHitsTrackedShift(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	api := &fakeAPI{
		checkAutoCloseFn: func(context.Context) ([]domain.Shift, error) {
			return []domain.Shift{{ID: 42, EmployeeID: 7, AutoClosed: true}}, nil
		},
	}
	service := NewShiftService(api, sessions)

	swept, err := service.CheckAutoClose(context.Background())
	require.NoError(t, err)
	assert.True(t, swept)

	snapshot := sessions.Snapshot()
	assert.True(t, snapshot.AutoClosed, "notification flag set")
	assert.Nil(t, snapshot.Employee)
	assert.Nil(t, snapshot.ActiveShift)
}

func TestCheckAutoClose_SweepMissesTrackedShift(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	api := &fakeAPI{
		checkAutoCloseFn: func(context.Context) ([]domain.Shift, error) {
			return []domain.Shift{{ID: 9, EmployeeID: 3, AutoClosed: true}}, nil
		},
	}
	service := NewShiftService(api, sessions)

	swept, err := service.CheckAutoClose(context.Background())
	require.NoError(t, err)
	assert.False(t, swept)

	snapshot := sessions.Snapshot()
	assert.False(t, snapshot.AutoClosed)
	assert.NotNil(t, snapshot.Employee, "unrelated sweep results leave state untouched")
	assert.NotNil(t, snapshot.ActiveShift)
}

func TestCheckAutoClose_NoopWithoutSession(t *testing.T) {
	sessions, _ := newTestSessionManager(t, domain.Session{})
	api := &fakeAPI{}
	service := NewShiftService(api, sessions)

	swept, err := service.CheckAutoClose(context.Background())
	require.NoError(t, err)
	assert.False(t, swept)
	assert.Zero(t, api.callCount("CheckAutoClose"), "no API call without an authenticated session")
}

func TestCheckAutoClose_StaleCompletionDiscarded(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	service := NewShiftService(&fakeAPI{
		checkAutoCloseFn: func(ctx context.Context) ([]domain.Shift, error) {
			return []domain.Shift{{ID: 42, EmployeeID: 7}}, nil
		},
	}, sessions)

	// Simulate the operator ending the shift and starting a new one
	// for a different employee while the sweep response is in flight:
	// the sweep snapshot was taken against employee 7 / shift 42.
	snapshotBefore := sessions.Snapshot()
	require.NotNil(t, snapshotBefore.ActiveShift)

	sessions.Update(context.Background(), func(s *domain.Session) {
		s.Employee = &domain.Employee{ID: 3, Name: "Bruno"}
		s.ActiveShift = &domain.Shift{ID: 50, EmployeeID: 3}
	})

	applied := service.clearTracked(context.Background(), 7, 42, true)
	assert.False(t, applied, "completion for a shift no longer tracked is discarded")

	snapshot := sessions.Snapshot()
	require.NotNil(t, snapshot.ActiveShift)
	assert.Equal(t, 50, snapshot.ActiveShift.ID, "the new shift survives the stale completion")
	assert.False(t, snapshot.AutoClosed)
}

func TestRestore_AdoptsCachedEmployeeShift(t *testing.T) {
	initial := operatorSession()
	initial.Employee = &domain.Employee{ID: 7, Name: "Ana"} // cached employee, no cached shift
	sessions, _ := newTestSessionManager(t, initial)
	api := &fakeAPI{
		currentBranchShiftsFn: func(context.Context) ([]domain.Shift, error) {
			return []domain.Shift{
				{ID: 9, EmployeeID: 3, Employee: &domain.Employee{ID: 3, Name: "Bruno"}},
				{ID: 42, EmployeeID: 7, Employee: &domain.Employee{ID: 7, Name: "Ana"}},
			}, nil
		},
	}
	service := NewShiftService(api, sessions)

	shift, err := service.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, 42, shift.ID, "prefers the cached employee's shift")
	assert.Equal(t, 1, api.callCount("CheckAutoClose"), "cleanup sweep runs before adoption")
}

func TestRestore_FallsBackToFirstActiveShift(t *testing.T) {
	initial := operatorSession()
	initial.Employee = &domain.Employee{ID: 99, Name: "Vieja"} // stale cached employee
	sessions, _ := newTestSessionManager(t, initial)
	api := &fakeAPI{
		currentBranchShiftsFn: func(context.Context) ([]domain.Shift, error) {
			return []domain.Shift{
				{ID: 9, EmployeeID: 3, Employee: &domain.Employee{ID: 3, Name: "Bruno"}},
			}, nil
		},
	}
	service := NewShiftService(api, sessions)

	shift, err := service.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, 9, shift.ID)

	snapshot := sessions.Snapshot()
	require.NotNil(t, snapshot.Employee)
	assert.Equal(t, 3, snapshot.Employee.ID, "station adopts whoever actually has the branch's shift")
	assert.Equal(t, "Bruno", snapshot.Employee.Name)
}

func TestRestore_NoopForAdminOrAnonymous(t *testing.T) {
	adminSession := domain.Session{
		Token: "tok",
		User:  &domain.User{Username: "admin", Role: domain.RoleAdmin},
	}
	sessions, _ := newTestSessionManager(t, adminSession)
	api := &fakeAPI{}
	service := NewShiftService(api, sessions)

	shift, err := service.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, shift)
	assert.Empty(t, api.calls, "admins do not track shifts")

	anonymous, _ := newTestSessionManager(t, domain.Session{})
	shift, err = NewShiftService(api, anonymous).Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, shift)
}

func TestRestore_NoOpenShiftOnBranch(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	api := &fakeAPI{
		currentBranchShiftsFn: func(context.Context) ([]domain.Shift, error) {
			return nil, nil
		},
	}
	service := NewShiftService(api, sessions)

	shift, err := service.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, shift)
	assert.Nil(t, sessions.Snapshot().ActiveShift)
}

func TestDismissAutoClose(t *testing.T) {
	initial := operatorSession()
	initial.AutoClosed = true
	sessions, _ := newTestSessionManager(t, initial)
	service := NewShiftService(&fakeAPI{}, sessions)

	service.DismissAutoClose(context.Background())
	assert.False(t, sessions.Snapshot().AutoClosed)
}

func TestElapsed(t *testing.T) {
	sessions, _ := newTestSessionManager(t, trackingSession(7, 42))
	service := NewShiftService(&fakeAPI{}, sessions)

	now := time.Now()
	elapsed := service.Elapsed(now)
	assert.InDelta(t, (2 * time.Hour).Seconds(), elapsed.Seconds(), 2.0)

	empty, _ := newTestSessionManager(t, operatorSession())
	assert.Zero(t, NewShiftService(&fakeAPI{}, empty).Elapsed(now))
}

func TestSelectEmployee_PlainErrorPropagates(t *testing.T) {
	sessions, _ := newTestSessionManager(t, operatorSession())
	api := &fakeAPI{
		startShiftFn: func(context.Context, int) (*domain.Shift, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewShiftService(api, sessions)

	_, err := service.SelectEmployee(context.Background(), 7, "Ana")
	require.Error(t, err)
	assert.Nil(t, sessions.Snapshot().Employee)
	assert.Zero(t, api.callCount("ActiveShift"), "no adoption attempt for non-conflict errors")
}
