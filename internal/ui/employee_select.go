package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"mostrador/internal/domain"
	"mostrador/internal/services"
)

// EmployeeSelect lets the operator pick who is working the shift.
// Submitting starts a new shift, or resumes the employee's own open
// shift when the server already has one. When the branch's open shift
// belongs to someone else, the holder is marked and picking anyone
// else comes back as a conflict.
type EmployeeSelect struct {
	Completed bool
	employees []domain.Employee
	form      *huh.Form
	openShift *domain.Shift
	selected  int
	shifts    *services.ShiftService
}

// NewEmployeeSelect builds the selector from the employee catalog.
func NewEmployeeSelect(shifts *services.ShiftService, employees []domain.Employee, openShift *domain.Shift) *EmployeeSelect {
	es := &EmployeeSelect{
		employees: employees,
		openShift: openShift,
		shifts:    shifts,
	}

	options := make([]huh.Option[int], 0, len(employees))
	for _, e := range employees {
		label := e.Name
		if e.Position != "" {
			label += " (" + e.Position + ")"
		}
		if openShift != nil && openShift.EmployeeID == e.ID {
			label += " · turno abierto"
		}
		options = append(options, huh.NewOption(label, e.ID))
	}

	description := "Iniciar Turno"
	if openShift != nil {
		description = fmt.Sprintf("Retomar Turno: %s tiene el turno abierto desde las %s",
			openShift.EmployeeName(), openShift.StartTime.Local().Format("15:04"))
	}

	es.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("¿Quién atiende el mostrador?").
				Description(description).
				Options(options...).
				Value(&es.selected),
		),
	)

	return es
}

func (es *EmployeeSelect) Init() tea.Cmd {
	return es.form.Init()
}

func (es *EmployeeSelect) Update(msg tea.Msg) (*EmployeeSelect, tea.Cmd) {
	form, cmd := es.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		es.form = f
	}

	if es.form.State == huh.StateCompleted && !es.Completed {
		es.Completed = true
		employeeID := es.selected
		name := es.nameFor(employeeID)
		shifts := es.shifts
		return es, func() tea.Msg {
			shift, err := shifts.SelectEmployee(context.Background(), employeeID, name)
			return shiftStartedMsg{Shift: shift, Err: err}
		}
	}

	return es, cmd
}

func (es *EmployeeSelect) View() string {
	return es.form.View()
}

func (es *EmployeeSelect) nameFor(id int) string {
	for _, e := range es.employees {
		if e.ID == id {
			return e.Name
		}
	}
	return ""
}
