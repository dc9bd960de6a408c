package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"mostrador/internal/domain"
	"mostrador/internal/services"
)

// ReportForm collects everything the closing report needs: which
// maintenance tasks got done, the sales figure and the free-text
// observations. The composed text is previewed live next to the form.
type ReportForm struct {
	Completed bool
	doneIDs   []int
	form      *huh.Form
	inputs    *services.ReportInputs

	bounces          string
	complaints       string
	generalNotes     string
	maintenanceNotes string
	stockCheck       string
	totalSales       string
}

// NewReportForm builds the closing form from the pre-fetched inputs.
func NewReportForm(inputs *services.ReportInputs) *ReportForm {
	rf := &ReportForm{inputs: inputs}
	if inputs.TotalSales > 0 {
		rf.totalSales = strconv.FormatFloat(inputs.TotalSales, 'f', -1, 64)
	}
	rf.buildForm()
	return rf
}

// Reopen rebuilds the form after a rejected close so the operator can
// adjust and submit again. Field values survive because the fields
// bind to the struct.
func (rf *ReportForm) Reopen() {
	rf.Completed = false
	rf.buildForm()
}

func (rf *ReportForm) buildForm() {
	inputs := rf.inputs
	taskOptions := make([]huh.Option[int], 0, len(inputs.Tasks))
	for _, task := range inputs.Tasks {
		taskOptions = append(taskOptions, huh.NewOption(task.Description, task.ID))
	}

	fields := []huh.Field{}
	if len(taskOptions) > 0 {
		fields = append(fields,
			huh.NewMultiSelect[int]().
				Title("Tareas de mantenimiento realizadas").
				Options(taskOptions...).
				Value(&rf.doneIDs),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Ventas totales del día ($)").
			Value(&rf.totalSales).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
					return fmt.Errorf("monto inválido")
				}
				return nil
			}),
		huh.NewText().
			Title("Reclamos de clientes").
			Lines(2).
			Value(&rf.complaints),
		huh.NewText().
			Title("Rebotes de venta").
			Lines(2).
			Value(&rf.bounces),
		huh.NewText().
			Title("Control de stock").
			Lines(2).
			Value(&rf.stockCheck),
		huh.NewText().
			Title("Observaciones de mantenimiento").
			Lines(2).
			Value(&rf.maintenanceNotes),
		huh.NewText().
			Title("Observaciones generales").
			Lines(2).
			Value(&rf.generalNotes),
	)

	rf.form = huh.NewForm(huh.NewGroup(fields...))
}

func (rf *ReportForm) Init() tea.Cmd {
	return rf.form.Init()
}

func (rf *ReportForm) Update(msg tea.Msg) (*ReportForm, tea.Cmd) {
	form, cmd := rf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		rf.form = f
	}
	if rf.form.State == huh.StateCompleted {
		rf.Completed = true
	}
	return rf, cmd
}

func (rf *ReportForm) View() string {
	return rf.form.View()
}

// Input assembles the composer input from the current form values.
// Called on every render for the live preview and once more with the
// closed shift when the report is finally saved.
func (rf *ReportForm) Input(shift *domain.Shift, employee *domain.Employee, now time.Time) domain.ReportInput {
	checklist := make([]domain.ChecklistItem, 0, len(rf.inputs.Tasks))
	for _, task := range rf.inputs.Tasks {
		checklist = append(checklist, domain.ChecklistItem{
			Task: task,
			Done: rf.taskDone(task.ID),
		})
	}

	sales := 0.0
	if trimmed := strings.TrimSpace(rf.totalSales); trimmed != "" {
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			sales = parsed
		}
	}

	return domain.ReportInput{
		Shift:            shift,
		Employee:         employee,
		Checklist:        checklist,
		Cash:             rf.inputs.Cash,
		TotalSales:       sales,
		Complaints:       rf.complaints,
		Bounces:          rf.bounces,
		StockCheck:       rf.stockCheck,
		MaintenanceNotes: rf.maintenanceNotes,
		GeneralNotes:     rf.generalNotes,
		Now:              now,
	}
}

func (rf *ReportForm) taskDone(id int) bool {
	for _, done := range rf.doneIDs {
		if done == id {
			return true
		}
	}
	return false
}
