package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"mostrador/internal/config"
	"mostrador/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	APIURL      string           `help:"Base URL of the shifts API" default:""`

	Run       RunCmd       `cmd:"" help:"Start the station TUI (default)" default:"1"`
	Login     LoginCmd     `cmd:"login" help:"Authenticate the station and store the session"`
	Logout    LogoutCmd    `cmd:"logout" help:"Clear the stored session"`
	Shift     ShiftCmd     `cmd:"shift" help:"Manage shifts from the command line (start, end, status, edit)"`
	Dashboard DashboardCmd `cmd:"dashboard" help:"Show the branch shift dashboard"`
	Serve     ServeCmd     `cmd:"serve" help:"Serve the dashboard over SSH"`
	Config    ConfigCmd    `cmd:"config" help:"Show or change persisted settings"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults.
	// Only apply a setting when the flag is at its default and the env
	// var is not set.

	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("MOSTRADOR_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("MOSTRADOR_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	if c.APIURL == "" {
		if env := os.Getenv("MOSTRADOR_API_URL"); env != "" {
			c.APIURL = env
		} else if c.settings != nil && c.settings.APIURL != "" {
			c.APIURL = c.settings.APIURL
		} else {
			c.APIURL = config.DefaultAPIURL
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export AFTER initialization so child processes inherit the debug
	// settings and append to the same file.
	if c.Debug || c.DebugFile != "" {
		os.Setenv("MOSTRADOR_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("MOSTRADOR_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("MOSTRADOR_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// Create the container after logging is initialized so the GORM
	// logger already has somewhere to write.
	container, err := NewContainer(c.APIURL)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
