package server

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"

	"mostrador/internal/logging"
	"mostrador/internal/ui"
)

// sessionModel wraps the dashboard to log session lifetime.
type sessionModel struct {
	*ui.DashboardModel
	sessionID string
	startTime time.Time
}

func (s *sessionModel) Init() tea.Cmd {
	return s.DashboardModel.Init()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.QuitMsg); ok {
		logging.Logger.Info("SSH session ended",
			"session_id", s.sessionID,
			"duration", time.Since(s.startTime).String())
	}

	updatedModel, cmd := s.DashboardModel.Update(msg)
	if m, ok := updatedModel.(*ui.DashboardModel); ok {
		s.DashboardModel = m
	}
	return s, cmd
}

func (s *sessionModel) View() string {
	return s.DashboardModel.View()
}

// teaHandler creates a dashboard model for each SSH session
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	wrappedModel := &sessionModel{
		DashboardModel: ui.NewDashboardModel(s.api, s.version),
		sessionID:      sessionID,
		startTime:      time.Now(),
	}

	return wrappedModel, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}
