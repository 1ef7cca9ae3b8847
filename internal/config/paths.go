package config

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.waimport.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".waimport")
}

// Path returns the global config file path.
func Path() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the importer log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "waimport.log")
}
