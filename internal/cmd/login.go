package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"mostrador/internal/logging"
)

// LoginCmd authenticates against the API and stores the session
type LoginCmd struct {
	Username string `arg:"" help:"Account username"`
	Password string `help:"Account password (prompted when omitted)" short:"p"`
}

// Run executes the login command
func (l *LoginCmd) Run(cli *CLI) error {
	password := l.Password
	if password == "" {
		prompt := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		))
		if err := prompt.Run(); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	user, err := cli.Container.Auth.Login(context.Background(), l.Username, password)
	if err != nil {
		return err
	}

	logging.Logger.Info("Logged in from CLI", "username", user.Username, "branch", user.Branch)
	fmt.Printf("Sesión iniciada: %s (%s)\n", user.Username, user.Branch)
	return nil
}
