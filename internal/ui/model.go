package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
	"mostrador/internal/services"
	"mostrador/internal/theme"
)

const bannerDismissDelay = 5 * time.Second

type uiState int

const (
	stateRestoring uiState = iota
	stateLogin
	stateLoadingEmployees
	stateSelecting
	stateStation
	stateConfirm
	statePreparingReport
	stateReport
	stateClosing
	stateSavingReport
	stateSaveRetry
	stateClosed
	stateDashboard
)

// Model is the station program root. It owns the state machine from
// login through shift tracking to the closing report, and reacts to
// background events (auto-close sweep hits, 401 session wipes) pushed
// through channels by the service layer.
type Model struct {
	auth     *services.AuthService
	catalog  ports.CatalogAPI
	reports  *services.ReportService
	sessions *services.SessionManager
	shifts   *services.ShiftService

	pollCh    <-chan string
	sessionCh <-chan domain.Session

	banner         string
	closedShift    *domain.Shift
	confirmDialog  *ConfirmDialog
	dashboard      *DashboardModel
	employeeSelect *EmployeeSelect
	errorManager   *ErrorManager
	height         int
	loginForm      *LoginForm
	pendingInput   *domain.ReportInput
	reportForm     *ReportForm
	spinner        spinner.Model
	state          uiState
	version        string
	width          int
}

// NewModel wires the root program model.
func NewModel(
	sessions *services.SessionManager,
	auth *services.AuthService,
	shifts *services.ShiftService,
	reports *services.ReportService,
	catalog ports.CatalogAPI,
	dashboard *DashboardModel,
	version string,
	errorClearDelay time.Duration,
	sessionCh <-chan domain.Session,
	pollCh <-chan string,
) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SpinnerStyle

	return &Model{
		auth:         auth,
		catalog:      catalog,
		dashboard:    dashboard,
		errorManager: NewErrorManager(errorClearDelay),
		pollCh:       pollCh,
		reports:      reports,
		sessionCh:    sessionCh,
		sessions:     sessions,
		shifts:       shifts,
		spinner:      sp,
		state:        stateRestoring,
		version:      version,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.restoreCmd(),
		waitForSessionChange(m.sessionCh),
		waitForAutoClose(m.pollCh),
	)
}

func waitForSessionChange(ch <-chan domain.Session) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionChangedMsg{Session: <-ch}
	}
}

func waitForAutoClose(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return autoCloseMsg{EmployeeName: <-ch}
	}
}

func (m *Model) restoreCmd() tea.Cmd {
	shifts := m.shifts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shift, err := shifts.Restore(ctx)
		return restoreDoneMsg{Shift: shift, Err: err}
	}
}

func (m *Model) loadEmployeesCmd() tea.Cmd {
	catalog := m.catalog
	shifts := m.shifts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		employees, err := catalog.Employees(ctx)
		if err != nil {
			return employeesLoadedMsg{Err: err}
		}
		open, err := shifts.BranchOpenShift(ctx)
		if err != nil {
			// The selector still works without holder info.
			logging.Logger.Warn("Failed to fetch branch open shift", "error", err)
		}
		return employeesLoadedMsg{Employees: employees, OpenShift: open}
	}
}

func (m *Model) prepareReportCmd(branch string) tea.Cmd {
	reports := m.reports
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		inputs, err := reports.PrepareInputs(ctx, branch)
		return reportInputsMsg{Inputs: inputs, Err: err}
	}
}

func (m *Model) closeShiftCmd() tea.Cmd {
	shifts := m.shifts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		closed, err := shifts.EndShift(ctx)
		return shiftClosedMsg{Shift: closed, Err: err}
	}
}

func (m *Model) saveReportCmd() tea.Cmd {
	reports := m.reports
	input := *m.pendingInput
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return reportSavedMsg{Err: reports.Save(ctx, input)}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		if err := auth.Logout(context.Background()); err != nil {
			logging.Logger.Warn("Logout failed", "error", err)
		}
		return nil
	}
}

func minuteTick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return minuteTickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Cross-state messages first.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.dashboard != nil {
			m.dashboard.width = msg.Width
			m.dashboard.height = msg.Height
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearErrorMsg:
		m.errorManager.ClearError()
		return m, nil

	case dismissBannerMsg:
		m.banner = ""
		return m, nil

	case sessionChangedMsg:
		return m.handleSessionChange(msg)

	case autoCloseMsg:
		return m.handleAutoClose(msg)
	}

	switch m.state {
	case stateRestoring:
		return m.updateRestoring(msg)
	case stateLogin:
		return m.updateLogin(msg)
	case stateLoadingEmployees:
		return m.updateLoadingEmployees(msg)
	case stateSelecting:
		return m.updateSelecting(msg)
	case stateStation:
		return m.updateStation(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case statePreparingReport:
		return m.updatePreparingReport(msg)
	case stateReport:
		return m.updateReport(msg)
	case stateClosing:
		return m.updateClosing(msg)
	case stateSavingReport:
		return m.updateSavingReport(msg)
	case stateSaveRetry:
		return m.updateSaveRetry(msg)
	case stateClosed:
		return m.updateClosed(msg)
	case stateDashboard:
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *Model) handleSessionChange(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	rearm := waitForSessionChange(m.sessionCh)

	// The HTTP layer wiped the session after a 401. Anything mid-flow
	// is abandoned and the operator logs back in.
	if !msg.Session.Authenticated() && m.state != stateLogin && m.state != stateRestoring {
		m.errorManager.SetError(fmt.Errorf("sesión expirada, ingresá de nuevo"))
		return m, tea.Batch(rearm, m.toLogin(), m.errorManager.ClearAfterDelay())
	}
	return m, rearm
}

func (m *Model) handleAutoClose(msg autoCloseMsg) (tea.Model, tea.Cmd) {
	m.banner = fmt.Sprintf("El turno de %s fue cerrado automáticamente", msg.EmployeeName)
	dismiss := tea.Tick(bannerDismissDelay, func(time.Time) tea.Msg {
		return dismissBannerMsg{}
	})
	rearm := waitForAutoClose(m.pollCh)

	// The tracked shift is gone; abandon anything built on top of it,
	// including a closing report mid-edit, and go back to the selector.
	switch m.state {
	case stateStation, stateConfirm, statePreparingReport, stateReport:
		m.state = stateLoadingEmployees
		m.confirmDialog = nil
		m.reportForm = nil
		return m, tea.Batch(dismiss, rearm, m.loadEmployeesCmd())
	}
	return m, tea.Batch(dismiss, rearm)
}

func (m *Model) updateRestoring(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, ok := msg.(restoreDoneMsg)
	if !ok {
		return m, nil
	}
	if done.Err != nil {
		logging.Logger.Warn("Session restore failed", "error", done.Err)
	}

	snapshot := m.sessions.Snapshot()

	var bannerCmd tea.Cmd
	if snapshot.AutoClosed {
		// The sweep closed the last tracked shift while the program
		// was not running. Tell the operator once, then clear the flag.
		m.banner = "El último turno fue cerrado automáticamente"
		m.shifts.DismissAutoClose(context.Background())
		bannerCmd = tea.Tick(bannerDismissDelay, func(time.Time) tea.Msg {
			return dismissBannerMsg{}
		})
	}

	switch {
	case !snapshot.Authenticated():
		return m, tea.Batch(bannerCmd, m.toLogin())
	case snapshot.User != nil && snapshot.User.Role == domain.RoleAdmin:
		m.state = stateDashboard
		return m, tea.Batch(bannerCmd, m.dashboard.Init())
	case snapshot.ActiveShift != nil:
		m.state = stateStation
		return m, tea.Batch(bannerCmd, minuteTick())
	default:
		m.state = stateLoadingEmployees
		return m, tea.Batch(bannerCmd, m.loadEmployeesCmd())
	}
}

func (m *Model) toLogin() tea.Cmd {
	m.state = stateLogin
	m.loginForm = NewLoginForm(m.auth)
	return m.loginForm.Init()
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if done, ok := msg.(loginDoneMsg); ok {
		if done.Err != nil {
			m.errorManager.SetError(done.Err)
			return m, tea.Batch(m.toLogin(), m.errorManager.ClearAfterDelay())
		}
		if done.User.Role == domain.RoleAdmin {
			m.state = stateDashboard
			return m, m.dashboard.Init()
		}
		// Adopt a shift the branch may already have open.
		m.state = stateRestoring
		return m, m.restoreCmd()
	}

	var cmd tea.Cmd
	m.loginForm, cmd = m.loginForm.Update(msg)
	return m, cmd
}

func (m *Model) updateLoadingEmployees(msg tea.Msg) (tea.Model, tea.Cmd) {
	loaded, ok := msg.(employeesLoadedMsg)
	if !ok {
		return m, nil
	}
	if loaded.Err != nil {
		m.errorManager.SetError(loaded.Err)
		return m, tea.Batch(m.toLogin(), m.errorManager.ClearAfterDelay())
	}
	m.state = stateSelecting
	m.employeeSelect = NewEmployeeSelect(m.shifts, loaded.Employees, loaded.OpenShift)
	return m, m.employeeSelect.Init()
}

func (m *Model) updateSelecting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			return m, tea.Batch(m.logoutCmd(), m.toLogin())
		}
	}

	if started, ok := msg.(shiftStartedMsg); ok {
		if started.Err != nil {
			m.errorManager.SetError(started.Err)
			m.state = stateLoadingEmployees
			return m, tea.Batch(m.loadEmployeesCmd(), m.errorManager.ClearAfterDelay())
		}
		m.state = stateStation
		return m, minuteTick()
	}

	var cmd tea.Cmd
	m.employeeSelect, cmd = m.employeeSelect.Update(msg)
	return m, cmd
}

func (m *Model) updateStation(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case minuteTickMsg:
		return m, minuteTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "e":
			m.state = stateConfirm
			m.confirmDialog = NewConfirmDialog(confirmEndShift, "¿Cerrar el turno?")
			return m, m.confirmDialog.Init()
		case "l":
			m.state = stateConfirm
			m.confirmDialog = NewConfirmDialog(confirmLogout, "¿Salir de la cuenta de la estación?")
			return m, m.confirmDialog.Init()
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirmDialog, cmd = m.confirmDialog.Update(msg)
	if !m.confirmDialog.Completed {
		return m, cmd
	}

	dialog := m.confirmDialog
	m.confirmDialog = nil
	if !dialog.Confirmed {
		m.state = stateStation
		return m, minuteTick()
	}

	switch dialog.action {
	case confirmEndShift:
		snapshot := m.sessions.Snapshot()
		branch := ""
		if snapshot.User != nil {
			branch = snapshot.User.Branch
		}
		m.state = statePreparingReport
		return m, m.prepareReportCmd(branch)
	case confirmLogout:
		return m, tea.Batch(m.logoutCmd(), m.toLogin())
	}
	return m, nil
}

func (m *Model) updatePreparingReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	inputs, ok := msg.(reportInputsMsg)
	if !ok {
		return m, nil
	}
	if inputs.Err != nil {
		m.errorManager.SetError(inputs.Err)
		m.state = stateStation
		return m, tea.Batch(minuteTick(), m.errorManager.ClearAfterDelay())
	}
	m.state = stateReport
	m.reportForm = NewReportForm(inputs.Inputs)
	return m, m.reportForm.Init()
}

func (m *Model) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.state = stateStation
		m.reportForm = nil
		return m, minuteTick()
	}

	var cmd tea.Cmd
	m.reportForm, cmd = m.reportForm.Update(msg)
	if m.reportForm.Completed {
		m.state = stateClosing
		return m, m.closeShiftCmd()
	}
	return m, cmd
}

func (m *Model) updateClosing(msg tea.Msg) (tea.Model, tea.Cmd) {
	closed, ok := msg.(shiftClosedMsg)
	if !ok {
		return m, nil
	}

	if closed.Err != nil {
		var verr *domain.ValidationError
		if errors.As(closed.Err, &verr) {
			// Server rejected the close; shift still runs, form keeps
			// its values for another attempt.
			m.errorManager.SetError(verr)
			m.state = stateReport
			m.reportForm.Reopen()
			return m, tea.Batch(m.reportForm.Init(), m.errorManager.ClearAfterDelay())
		}
		m.errorManager.SetError(closed.Err)
		m.state = stateStation
		return m, tea.Batch(minuteTick(), m.errorManager.ClearAfterDelay())
	}

	if closed.Shift == nil {
		// Nothing to close on the server; no report either.
		m.reportForm = nil
		m.state = stateLoadingEmployees
		return m, m.loadEmployeesCmd()
	}

	input := m.reportForm.Input(closed.Shift, closed.Shift.Employee, time.Now())
	if input.Employee == nil {
		input.Employee = &domain.Employee{ID: closed.Shift.EmployeeID, Name: closed.Shift.EmployeeName()}
	}
	m.pendingInput = &input
	m.closedShift = closed.Shift
	m.state = stateSavingReport
	return m, m.saveReportCmd()
}

func (m *Model) updateSavingReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	saved, ok := msg.(reportSavedMsg)
	if !ok {
		return m, nil
	}
	if saved.Err != nil {
		m.errorManager.SetError(saved.Err)
		m.state = stateSaveRetry
		return m, nil
	}
	m.state = stateClosed
	return m, nil
}

func (m *Model) updateSaveRetry(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "r":
		m.errorManager.ClearError()
		m.state = stateSavingReport
		return m, m.saveReportCmd()
	case "d", "esc":
		// Operator gave up on the report; the shift is already closed.
		logging.Logger.Warn("Daily report discarded after save failure",
			"shift_id", m.closedShift.ID)
		m.errorManager.ClearError()
		m.state = stateClosed
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateClosed(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	default:
		m.reportForm = nil
		m.pendingInput = nil
		m.closedShift = nil
		m.state = stateLoadingEmployees
		return m, m.loadEmployeesCmd()
	}
}

func (m *Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.dashboard.Update(msg)
	if d, ok := model.(*DashboardModel); ok {
		m.dashboard = d
	}
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(theme.BannerStyle.Render(m.banner))
		b.WriteString("\n")
	}

	switch m.state {
	case stateRestoring:
		b.WriteString(m.spinner.View() + " Recuperando sesión...")
	case stateLogin:
		b.WriteString(m.loginForm.View())
	case stateLoadingEmployees:
		b.WriteString(m.spinner.View() + " Cargando empleados...")
	case stateSelecting:
		b.WriteString(m.employeeSelect.View())
	case stateStation:
		b.WriteString(m.stationView())
	case stateConfirm:
		b.WriteString(m.confirmDialog.View())
	case statePreparingReport:
		b.WriteString(m.spinner.View() + " Preparando reporte...")
	case stateReport:
		b.WriteString(m.reportView())
	case stateClosing:
		b.WriteString(m.spinner.View() + " Cerrando turno...")
	case stateSavingReport:
		b.WriteString(m.spinner.View() + " Guardando reporte...")
	case stateSaveRetry:
		b.WriteString(theme.ErrorStyle.Render("No se pudo guardar el reporte"))
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("r: reintentar · d: descartar"))
	case stateClosed:
		b.WriteString(m.closedView())
	case stateDashboard:
		return m.dashboard.View()
	}

	if m.errorManager.HasError() {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(
			formatErrorForDisplay(m.errorManager.GetError(), m.contentWidth())))
	}
	return b.String()
}

func (m *Model) header() string {
	name := theme.AppNameStyle.Render("Mostrador")
	version := theme.VersionStyle.Render(m.version)

	snapshot := m.sessions.Snapshot()
	branch := ""
	if snapshot.User != nil && snapshot.User.Branch != "" {
		branch = theme.BranchStyle.Render(" · " + snapshot.User.Branch)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, name, branch, " ", version)
}

func (m *Model) stationView() string {
	snapshot := m.sessions.Snapshot()
	if snapshot.Employee == nil || snapshot.ActiveShift == nil {
		return theme.SubtleStyle.Render("Sin turno activo")
	}

	elapsed := m.shifts.Elapsed(time.Now())
	stateStyle := theme.OpenStyle
	if elapsed >= domain.MaxShiftHours*time.Hour {
		stateStyle = theme.OvertimeStyle
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Turno en curso"))
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("Empleado"))
	b.WriteString(theme.ValueStyle.Render(snapshot.Employee.Name))
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("Inicio"))
	b.WriteString(theme.ValueStyle.Render(snapshot.ActiveShift.StartTime.Local().Format("15:04")))
	b.WriteString("\n")
	b.WriteString(theme.LabelStyle.Render("Transcurrido"))
	b.WriteString(stateStyle.Render(domain.FormatElapsed(elapsed)))
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("e: cerrar turno · l: salir de la cuenta · q: salir"))
	return b.String()
}

func (m *Model) reportView() string {
	form := m.reportForm.View()

	// A sweep hit can clear the tracked shift between the poll message
	// and this render; skip the preview until the abandon lands.
	snapshot := m.sessions.Snapshot()
	if snapshot.ActiveShift == nil || snapshot.Employee == nil {
		return form
	}
	preview := domain.ComposeReport(
		m.reportForm.Input(snapshot.ActiveShift, snapshot.Employee, time.Now()))

	if m.width < 100 {
		return form
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", theme.PreviewStyle.Render(preview))
}

func (m *Model) closedView() string {
	var b strings.Builder
	b.WriteString(theme.SuccessStyle.Render("Turno cerrado"))
	b.WriteString("\n")
	if m.pendingInput != nil {
		b.WriteString(theme.PreviewStyle.Render(domain.ComposeReport(*m.pendingInput)))
		b.WriteString("\n")
	}
	b.WriteString(theme.HelpStyle.Render("cualquier tecla: continuar · q: salir"))
	return b.String()
}

func (m *Model) contentWidth() int {
	if m.width > 0 {
		return m.width
	}
	return 80
}
