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

func TestPrepareInputs_FiltersTasksByBranch(t *testing.T) {
	api := &fakeAPI{
		maintenanceTasksFn: func(context.Context) ([]domain.MaintenanceTask, error) {
			return []domain.MaintenanceTask{
				{ID: 1, Description: "Limpiar peceras", Branch: "Centro", IsActive: true},
				{ID: 2, Description: "Revisar heladera", Branch: "Norte", IsActive: true},
				{ID: 3, Description: "Barrer vereda", Branch: "Ambas", IsActive: true},
				{ID: 4, Description: "Tarea global", Branch: "", IsActive: true},
				{ID: 5, Description: "Tarea vieja", Branch: "Centro", IsActive: false},
			}, nil
		},
	}
	service := NewReportService(api)

	inputs, err := service.PrepareInputs(context.Background(), "Centro")
	require.NoError(t, err)

	var ids []int
	for _, task := range inputs.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int{1, 3, 4}, ids, "branch tasks, all-branch tasks, active only")
}

func TestPrepareInputs_PicksTodaysRegisterAndPrefillsSales(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	api := &fakeAPI{
		cashRegisterFn: func(context.Context) ([]domain.CashRegister, error) {
			return []domain.CashRegister{
				{ID: 1, Date: "2020-01-01T00:00:00", CashSales: 99},
				{ID: 2, Date: today + "T00:00:00", InitialBalance: 500, CashSales: 12000},
			}, nil
		},
	}
	service := NewReportService(api)

	inputs, err := service.PrepareInputs(context.Background(), "Centro")
	require.NoError(t, err)
	require.NotNil(t, inputs.Cash)
	assert.Equal(t, 2, inputs.Cash.ID)
	assert.Equal(t, 12000.0, inputs.TotalSales, "total sales pre-filled from the register")
}

func TestPrepareInputs_NoRegisterToday(t *testing.T) {
	api := &fakeAPI{
		cashRegisterFn: func(context.Context) ([]domain.CashRegister, error) {
			return []domain.CashRegister{{ID: 1, Date: "2020-01-01T00:00:00", CashSales: 99}}, nil
		},
	}
	inputs, err := NewReportService(api).PrepareInputs(context.Background(), "Centro")
	require.NoError(t, err)
	assert.Nil(t, inputs.Cash)
	assert.Zero(t, inputs.TotalSales)
}

func TestPrepareInputs_PropagatesFetchErrors(t *testing.T) {
	api := &fakeAPI{
		maintenanceTasksFn: func(context.Context) ([]domain.MaintenanceTask, error) {
			return nil, errors.New("boom")
		},
	}
	_, err := NewReportService(api).PrepareInputs(context.Background(), "Centro")
	assert.Error(t, err)
}

func TestSave_PostsBuiltReport(t *testing.T) {
	var saved domain.DailyReport
	api := &fakeAPI{
		saveDailyReportFn: func(_ context.Context, report domain.DailyReport) error {
			saved = report
			return nil
		},
	}
	service := NewReportService(api)

	input := domain.ReportInput{
		Shift:    &domain.Shift{ID: 42, TotalHours: 8, StartTime: time.Now()},
		Employee: &domain.Employee{ID: 7, Name: "Ana"},
		Checklist: []domain.ChecklistItem{
			{Task: domain.MaintenanceTask{ID: 1, Description: "Limpiar"}, Done: true},
		},
		TotalSales: 12000,
		Complaints: "1 reclamo",
		Now:        time.Now(),
	}
	require.NoError(t, service.Save(context.Background(), input))

	assert.True(t, saved.MaintenanceTasksCompleted)
	assert.Equal(t, 12000.0, saved.TotalSales)
	assert.Equal(t, "1 reclamo", saved.Complaints)
	assert.Contains(t, saved.ShiftData, "REPORTE DE CIERRE DE TURNO")
}

func TestSave_FailureIsReturnedForRetry(t *testing.T) {
	calls := 0
	api := &fakeAPI{
		saveDailyReportFn: func(context.Context, domain.DailyReport) error {
			calls++
			if calls == 1 {
				return errors.New("connection reset")
			}
			return nil
		},
	}
	service := NewReportService(api)

	input := domain.ReportInput{
		Shift:    &domain.Shift{ID: 42, StartTime: time.Now()},
		Employee: &domain.Employee{ID: 7, Name: "Ana"},
		Now:      time.Now(),
	}
	require.Error(t, service.Save(context.Background(), input))
	require.NoError(t, service.Save(context.Background(), input),
		"the same inputs can be retried without re-closing the shift")
}
