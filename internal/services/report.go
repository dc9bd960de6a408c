package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// ReportService gathers the inputs for the end-of-shift report and
// persists the finished record. Composition itself is pure and lives
// in the domain package; this service only does the fetching.
type ReportService struct {
	api ports.API
}

// NewReportService creates a new ReportService
func NewReportService(api ports.API) *ReportService {
	return &ReportService{api: api}
}

// ReportInputs is what PrepareInputs pulls from the remote
// collections before the operator fills in the free-text fields.
type ReportInputs struct {
	Tasks []domain.MaintenanceTask
	Cash  *domain.CashRegister
	// TotalSales is pre-filled from the register's cash sales when a
	// snapshot exists.
	TotalSales float64
}

// PrepareInputs fetches the maintenance checklist (active tasks for
// the branch or for all branches) and today's cash register snapshot,
// concurrently. A missing register entry is normal (Cash stays nil
// and the report simply omits the cash section).
func (s *ReportService) PrepareInputs(ctx context.Context, branch string) (*ReportInputs, error) {
	var (
		tasks   []domain.MaintenanceTask
		entries []domain.CashRegister
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.api.MaintenanceTasks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.api.CashRegisterEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := &ReportInputs{}
	for _, task := range tasks {
		if task.IsActive && task.AppliesTo(branch) {
			inputs.Tasks = append(inputs.Tasks, task)
		}
	}

	today := time.Now()
	for i := range entries {
		if entries[i].IsForDate(today) {
			inputs.Cash = &entries[i]
			inputs.TotalSales = entries[i].CashSales
			break
		}
	}

	return inputs, nil
}

// Save persists the composed report. The shift is already closed by
// the time this runs; a failure here never reopens it, it is surfaced
// as retryable and the caller keeps the composed inputs so a retry
// needs no re-derivation.
func (s *ReportService) Save(ctx context.Context, input domain.ReportInput) error {
	report := input.BuildDailyReport()
	if err := s.api.SaveDailyReport(ctx, report); err != nil {
		logging.Logger.Error("Failed to save daily report",
			"error", err, "shift_id", input.Shift.ID)
		return err
	}
	logging.Logger.Info("Daily report saved", "shift_id", input.Shift.ID)
	return nil
}
