package cmd

import (
	"context"
	"fmt"

	"mostrador/internal/logging"
)

// LogoutCmd clears the stored session
type LogoutCmd struct{}

// Run executes the logout command
func (l *LogoutCmd) Run(cli *CLI) error {
	if err := cli.Container.Auth.Logout(context.Background()); err != nil {
		return err
	}
	logging.Logger.Info("Logged out from CLI")
	fmt.Println("Sesión cerrada")
	return nil
}
