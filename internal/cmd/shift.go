package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
)

// ShiftCmd groups shift operations
type ShiftCmd struct {
	Start  ShiftStartCmd  `cmd:"start" help:"Start (or resume) a shift for an employee"`
	End    ShiftEndCmd    `cmd:"end" help:"End the tracked shift"`
	Status ShiftStatusCmd `cmd:"status" help:"Show the tracked shift"`
	Edit   ShiftEditCmd   `cmd:"edit" help:"Correct a shift record (admin)"`
}

// ShiftStartCmd starts or resumes a shift
type ShiftStartCmd struct {
	Employee string `arg:"" help:"Employee id or name"`
}

// Run executes the shift start command
func (s *ShiftStartCmd) Run(cli *CLI) error {
	ctx := context.Background()

	employeeID, name, err := s.resolveEmployee(ctx, cli)
	if err != nil {
		return err
	}

	shift, err := cli.Container.Shifts.SelectEmployee(ctx, employeeID, name)
	if err != nil {
		return err
	}

	logging.Logger.Info("Shift started from CLI",
		"employee_id", employeeID, "shift_id", shift.ID)
	fmt.Printf("Turno abierto para %s desde las %s\n",
		name, shift.StartTime.Local().Format("15:04"))
	return nil
}

func (s *ShiftStartCmd) resolveEmployee(ctx context.Context, cli *CLI) (int, string, error) {
	employees, err := cli.Container.API.Employees(ctx)
	if err != nil {
		return 0, "", err
	}

	if id, convErr := strconv.Atoi(s.Employee); convErr == nil {
		for _, e := range employees {
			if e.ID == id {
				return e.ID, e.Name, nil
			}
		}
		return 0, "", fmt.Errorf("no employee with id %d", id)
	}

	for _, e := range employees {
		if strings.EqualFold(e.Name, s.Employee) {
			return e.ID, e.Name, nil
		}
	}
	return 0, "", fmt.Errorf("no employee named %q", s.Employee)
}

// ShiftEndCmd ends the tracked shift without a closing report.
// The report flow lives in the TUI where the checklist can be filled.
type ShiftEndCmd struct{}

// Run executes the shift end command
func (s *ShiftEndCmd) Run(cli *CLI) error {
	closed, err := cli.Container.Shifts.EndShift(context.Background())
	if err != nil {
		return err
	}
	if closed == nil {
		fmt.Println("No había turno abierto en el servidor; estado local limpiado")
		return nil
	}

	logging.Logger.Warn("Shift closed from CLI without a daily report",
		"shift_id", closed.ID)
	fmt.Printf("Turno cerrado: %.2f hs (sin reporte de cierre)\n", closed.TotalHours)
	return nil
}

// ShiftStatusCmd shows the locally tracked shift
type ShiftStatusCmd struct{}

// Run executes the shift status command
func (s *ShiftStatusCmd) Run(cli *CLI) error {
	snapshot := cli.Container.Sessions.Snapshot()
	if !snapshot.Authenticated() {
		fmt.Println("Sin sesión; usá 'mostrador login'")
		return nil
	}
	if snapshot.Employee == nil || snapshot.ActiveShift == nil {
		fmt.Println("Sin turno activo")
		return nil
	}

	elapsed := snapshot.ActiveShift.Elapsed(time.Now())
	fmt.Printf("%s · desde las %s · %s\n",
		snapshot.Employee.Name,
		snapshot.ActiveShift.StartTime.Local().Format("15:04"),
		domain.FormatElapsed(elapsed))
	return nil
}

// ShiftEditCmd applies an admin correction to a shift record
type ShiftEditCmd struct {
	ID    int    `arg:"" help:"Shift id to correct"`
	Start string `help:"Corrected start time (RFC3339)"`
	End   string `help:"Corrected end time (RFC3339)"`
}

// Run executes the shift edit command
func (s *ShiftEditCmd) Run(cli *CLI) error {
	if s.Start == "" && s.End == "" {
		return fmt.Errorf("nothing to change: pass --start and/or --end")
	}

	shift := &domain.Shift{ID: s.ID}
	if s.Start != "" {
		start, err := time.Parse(time.RFC3339, s.Start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		shift.StartTime = start
	}
	if s.End != "" {
		end, err := time.Parse(time.RFC3339, s.End)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		shift.EndTime = &end
	}

	if err := cli.Container.API.UpdateShift(context.Background(), shift); err != nil {
		return err
	}

	logging.Logger.Info("Shift corrected from CLI", "shift_id", s.ID)
	fmt.Printf("Turno %d actualizado\n", s.ID)
	return nil
}
