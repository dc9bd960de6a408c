package config

import (
	"os"
	"path/filepath"
)

// GetHome returns MOSTRADOR_HOME or ~/.mostrador default
func GetHome() string {
	home := os.Getenv("MOSTRADOR_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".mostrador"
		}
		return filepath.Join(homeDir, ".mostrador")
	}
	return ExpandPath(home)
}

// GetDBPath returns $MOSTRADOR_HOME/mostrador.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "mostrador.db")
}

// GetSettingsPath returns $MOSTRADOR_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// GetSSHDir returns $MOSTRADOR_HOME/ssh (host keys for the dashboard server)
func GetSSHDir() string {
	return filepath.Join(GetHome(), "ssh")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
