package cmd

import (
	"context"

	adapterapi "mostrador/internal/adapters/api"
	adapterstorage "mostrador/internal/adapters/storage"
	"mostrador/internal/config"
	"mostrador/internal/ports"
	"mostrador/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	API      *adapterapi.Client
	Auth     *services.AuthService
	Reports  *services.ReportService
	Sessions *services.SessionManager
	Shifts   *services.ShiftService

	// Internal - for cleanup only
	store ports.SessionStore
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(apiURL string) (*Container, error) {
	store, err := adapterstorage.NewSQLiteStore(config.GetDBPath())
	if err != nil {
		return nil, err
	}

	sessions, err := services.NewSessionManager(context.Background(), store)
	if err != nil {
		store.Close()
		return nil, err
	}

	// Any 401 outside login wipes the persisted session; the UI picks
	// the wipe up through the session change subscription.
	client := adapterapi.NewClient(apiURL, sessions.Token,
		adapterapi.WithUnauthorizedHook(sessions.HandleUnauthorized))

	return &Container{
		API:      client,
		Auth:     services.NewAuthService(client, sessions),
		Reports:  services.NewReportService(client),
		Sessions: sessions,
		Shifts:   services.NewShiftService(client, sessions),
		store:    store,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
