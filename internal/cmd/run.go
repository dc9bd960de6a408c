package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mostrador/internal/config"
	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/services"
	"mostrador/internal/ui"
	"mostrador/internal/version"
)

// RunCmd starts the station TUI
type RunCmd struct {
	ErrorClearDelay int `help:"Seconds before error messages auto-clear" default:"10"`
	PollMinutes     int `help:"Minutes between auto-close sweeps" default:"5"`
}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	if cli.settings != nil {
		if r.ErrorClearDelay == 10 && cli.settings.ErrorClearDelay != nil {
			r.ErrorClearDelay = *cli.settings.ErrorClearDelay
		}
		if r.PollMinutes == config.DefaultPollMinutes && cli.settings.PollMinutes != nil {
			r.PollMinutes = *cli.settings.PollMinutes
		}
	}

	logging.Logger.Info("Starting station TUI",
		"poll_minutes", r.PollMinutes)

	// Session changes flow to the model through a buffered channel;
	// a full buffer drops the notification rather than blocking the
	// persistence path.
	sessionCh := make(chan domain.Session, 8)
	cli.Container.Sessions.Subscribe(func(s domain.Session) {
		select {
		case sessionCh <- s:
		default:
		}
	})

	pollCh := make(chan string, 1)
	poller := services.NewPoller(cli.Container.Shifts,
		time.Duration(r.PollMinutes)*time.Minute, pollCh)
	poller.Start()
	defer poller.Stop()

	dashboard := ui.NewDashboardModel(cli.Container.API, version.Version)
	model := ui.NewModel(
		cli.Container.Sessions,
		cli.Container.Auth,
		cli.Container.Shifts,
		cli.Container.Reports,
		cli.Container.API,
		dashboard,
		version.Version,
		time.Duration(r.ErrorClearDelay)*time.Second,
		sessionCh,
		pollCh,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}
