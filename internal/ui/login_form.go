package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"mostrador/internal/services"
)

// LoginForm collects credentials and runs the login call when the
// operator submits.
type LoginForm struct {
	Completed bool
	auth      *services.AuthService
	form      *huh.Form
	password  string
	username  string
}

// NewLoginForm creates the credentials form.
func NewLoginForm(auth *services.AuthService) *LoginForm {
	lf := &LoginForm{auth: auth}

	lf.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Usuario").
				Value(&lf.username).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("usuario requerido")
					}
					return nil
				}),
			huh.NewInput().
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Value(&lf.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("contraseña requerida")
					}
					return nil
				}),
		),
	)

	return lf
}

func (lf *LoginForm) Init() tea.Cmd {
	return lf.form.Init()
}

func (lf *LoginForm) Update(msg tea.Msg) (*LoginForm, tea.Cmd) {
	form, cmd := lf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lf.form = f
	}

	if lf.form.State == huh.StateCompleted && !lf.Completed {
		lf.Completed = true
		username, password := lf.username, lf.password
		auth := lf.auth
		return lf, func() tea.Msg {
			user, err := auth.Login(context.Background(), username, password)
			return loginDoneMsg{User: user, Err: err}
		}
	}

	return lf, cmd
}

func (lf *LoginForm) View() string {
	return lf.form.View()
}
