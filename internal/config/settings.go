package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultAPIURL is used when neither flag, env var, nor settings.json
// provide one.
const DefaultAPIURL = "http://localhost:5027/api"

// DefaultPollMinutes is the auto-close sweep interval.
const DefaultPollMinutes = 5

// Settings represents the structure of ~/.mostrador/settings.json
type Settings struct {
	APIURL          string `json:"api_url,omitempty"`
	Debug           *bool  `json:"debug,omitempty"`
	ErrorClearDelay *int   `json:"error_clear_delay,omitempty"`
	MaxLogFiles     *int   `json:"max_log_files,omitempty"`
	PollMinutes     *int   `json:"poll_minutes,omitempty"`
	SSHHost         string `json:"ssh_host,omitempty"`
	SSHPort         string `json:"ssh_port,omitempty"`
}

// LoadSettings loads settings from $MOSTRADOR_HOME/settings.json.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to $MOSTRADOR_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
