package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mostrador/internal/domain"
	"mostrador/internal/ports"
	"mostrador/internal/theme"
)

const dashboardRefreshInterval = 30 * time.Second

// refreshDashboardMsg triggers a dashboard reload.
type refreshDashboardMsg struct{}

// DashboardModel shows the open shift per branch. Used both by the
// local dashboard command and by the read-only SSH view.
type DashboardModel struct {
	api     ports.ShiftAPI
	err     error
	height  int
	loading bool
	rows    []domain.BranchStatus
	version string
	width   int
}

// NewDashboardModel creates the branch summary view.
func NewDashboardModel(api ports.ShiftAPI, version string) *DashboardModel {
	return &DashboardModel{
		api:     api,
		loading: true,
		version: version,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.scheduleRefresh())
}

func (m *DashboardModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		rows, err := api.Dashboard(ctx)
		return dashboardLoadedMsg{Rows: rows, Err: err}
	}
}

func (m *DashboardModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(dashboardRefreshInterval, func(time.Time) tea.Msg {
		return refreshDashboardMsg{}
	})
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.load()
		}

	case refreshDashboardMsg:
		return m, tea.Batch(m.load(), m.scheduleRefresh())

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.rows = msg.Rows
		}
		return m, nil
	}
	return m, nil
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Mostrador · Turnos por sucursal"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(theme.ErrorStyle.Render(formatErrorForDisplay(m.err, m.contentWidth())))
		b.WriteString("\n")
	case m.loading && len(m.rows) == 0:
		b.WriteString(theme.SubtleStyle.Render("Cargando..."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(theme.SubtleStyle.Render("Sin sucursales"))
		b.WriteString("\n")
	default:
		for _, row := range m.rows {
			b.WriteString(m.renderRow(row))
			b.WriteString("\n")
		}
	}

	b.WriteString(theme.HelpStyle.Render("r: actualizar · q: salir"))
	b.WriteString("  ")
	b.WriteString(theme.VersionStyle.Render(m.version))
	return b.String()
}

func (m *DashboardModel) renderRow(row domain.BranchStatus) string {
	branch := theme.BranchStyle.Render(fmt.Sprintf("%-12s", row.Branch))
	if !row.HasOpenShift {
		return fmt.Sprintf("%s %s", branch, theme.ClosedStyle.Render("cerrado"))
	}

	style := theme.OpenStyle
	if row.HoursOpen >= domain.MaxShiftHours {
		style = theme.OvertimeStyle
	}
	status := style.Render(fmt.Sprintf("abierto · %s · %.1f hs", row.EmployeeName, row.HoursOpen))
	return fmt.Sprintf("%s %s", branch, status)
}

func (m *DashboardModel) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}
