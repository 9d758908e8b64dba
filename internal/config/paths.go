package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "PLURALSIGHT_CONFIG"
	// ConfigFileName is the file looked up in every search directory
	ConfigFileName = "contacts.yaml"
	// ConfigDirName is the per-user and system config directory name
	ConfigDirName = "pluralsight"
)

// SearchPaths lists the config file candidates in priority order:
// $PLURALSIGHT_CONFIG, ./contacts.yaml, $XDG_CONFIG_HOME/pluralsight,
// ~/.config/pluralsight and /etc/pluralsight. Unset locations are left out.
func SearchPaths() []string {
	var paths []string
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		paths = append(paths, explicit)
	}

	local := ConfigFileName
	if abs, err := filepath.Abs(local); err == nil {
		local = abs
	}
	paths = append(paths, local)

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, ConfigFileName))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, ConfigFileName))
}

// FindConfigPath returns the first candidate of SearchPaths that is a
// regular file, or "" when there is none. A missing $PLURALSIGHT_CONFIG
// falls through to the next candidate.
func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0o750)
}
