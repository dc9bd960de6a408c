package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mostrador/internal/logging"
	"mostrador/internal/ui"
	"mostrador/internal/version"
)

// DashboardCmd shows the branch shift dashboard in the local terminal
type DashboardCmd struct{}

// Run executes the dashboard command
func (d *DashboardCmd) Run(cli *CLI) error {
	model := ui.NewDashboardModel(cli.Container.API, version.Version)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Logger.Error("Dashboard program error", "error", err)
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}
