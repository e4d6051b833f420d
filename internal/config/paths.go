package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file,
// following the XDG Base Directory Specification:
// ~/.config/gitweekly/config.yml on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gitweekly", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config path, always
// .gitweekly/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".gitweekly", "config.yml")
}

// ProjectConfigDir returns the project-level config directory.
func ProjectConfigDir() string {
	return ".gitweekly"
}

// LegacyProjectConfigPath returns the old JSON project config location.
func LegacyProjectConfigPath() string {
	return filepath.Join(".gitweekly", "config.json")
}
