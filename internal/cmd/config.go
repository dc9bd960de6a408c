package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"mostrador/internal/config"
	"mostrador/internal/logging"
)

// ConfigCmd manages the persisted station settings
type ConfigCmd struct {
	List ConfigListCmd `cmd:"list" help:"Show the persisted settings" default:"1"`
	Set  ConfigSetCmd  `cmd:"set" help:"Persist a setting in settings.json"`
}

// ConfigListCmd shows the persisted settings next to their defaults
type ConfigListCmd struct{}

// ConfigSetCmd writes one setting to settings.json
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name (api_url, debug, error_clear_delay, max_log_files, poll_minutes, ssh_host, ssh_port)"`
	Value string `arg:"" help:"New value"`
}

// Run executes the list command
func (c *ConfigListCmd) Run(cli *CLI) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	fmt.Printf("Settings (file: %s)\n\n", config.GetSettingsPath())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Name\tValue\tDefault")
	fmt.Fprintln(w, "────\t─────\t───────")
	fmt.Fprintf(w, "api_url\t%s\t%s\n", orDash(settings.APIURL), config.DefaultAPIURL)
	fmt.Fprintf(w, "debug\t%s\tfalse\n", boolOrDash(settings.Debug))
	fmt.Fprintf(w, "error_clear_delay\t%s\t10\n", intOrDash(settings.ErrorClearDelay))
	fmt.Fprintf(w, "max_log_files\t%s\t1000\n", intOrDash(settings.MaxLogFiles))
	fmt.Fprintf(w, "poll_minutes\t%s\t%d\n", intOrDash(settings.PollMinutes), config.DefaultPollMinutes)
	fmt.Fprintf(w, "ssh_host\t%s\t0.0.0.0\n", orDash(settings.SSHHost))
	fmt.Fprintf(w, "ssh_port\t%s\t2227\n", orDash(settings.SSHPort))
	w.Flush()

	fmt.Println()
	fmt.Println("Use 'mostrador config set <name> <value>' to change one.")
	return nil
}

// Run executes the set command
func (c *ConfigSetCmd) Run(cli *CLI) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := applySetting(settings, c.Key, c.Value); err != nil {
		return err
	}

	logging.Logger.Debug("Persisting setting", "key", c.Key, "value", c.Value)
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("Set '%s' to: %s\n", c.Key, c.Value)
	return nil
}

// applySetting mutates one named field, validating the value by the
// field's type.
func applySetting(settings *config.Settings, key, value string) error {
	switch key {
	case "api_url":
		settings.APIURL = value
	case "ssh_host":
		settings.SSHHost = value
	case "ssh_port":
		settings.SSHPort = value
	case "debug":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug must be true or false, got '%s'", value)
		}
		settings.Debug = &parsed
	case "error_clear_delay", "max_log_files", "poll_minutes":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("%s must be a positive integer, got '%s'", key, value)
		}
		switch key {
		case "error_clear_delay":
			settings.ErrorClearDelay = &parsed
		case "max_log_files":
			settings.MaxLogFiles = &parsed
		case "poll_minutes":
			settings.PollMinutes = &parsed
		}
	default:
		return fmt.Errorf("unknown setting '%s'. Valid settings: api_url, debug, error_clear_delay, max_log_files, poll_minutes, ssh_host, ssh_port", key)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func boolOrDash(b *bool) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatBool(*b)
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
