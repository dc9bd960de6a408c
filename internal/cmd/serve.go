package cmd

import (
	"os"

	"mostrador/internal/server"
	"mostrador/internal/version"
)

// ServeCmd serves the read-only dashboard over SSH
type ServeCmd struct {
	Host string `help:"Host to bind to" default:"0.0.0.0"`
	Port string `help:"Port to listen on" default:"2227"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	host, port := s.Host, s.Port
	if cli.settings != nil {
		if host == "0.0.0.0" && cli.settings.SSHHost != "" {
			if _, hasEnv := os.LookupEnv("MOSTRADOR_SSH_HOST"); !hasEnv {
				host = cli.settings.SSHHost
			}
		}
		if port == "2227" && cli.settings.SSHPort != "" {
			if _, hasEnv := os.LookupEnv("MOSTRADOR_SSH_PORT"); !hasEnv {
				port = cli.settings.SSHPort
			}
		}
	}
	if env := os.Getenv("MOSTRADOR_SSH_HOST"); env != "" {
		host = env
	}
	if env := os.Getenv("MOSTRADOR_SSH_PORT"); env != "" {
		port = env
	}

	srv, err := server.NewServer(host, port, cli.Container.API, version.Version)
	if err != nil {
		return err
	}
	return srv.Start()
}
