package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Built-in defaults used when neither flag nor config file says
// otherwise.
const (
	DefaultServer    = "s.whatsapp.net"
	DefaultStorePath = "messages.db"
)

// Config represents the global ~/.waimport/config.toml.
type Config struct {
	OwnName   string `toml:"own_name"`
	StorePath string `toml:"store_path"`
	Server    string `toml:"server"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Resolve picks a setting using precedence: flag > config file > def.
func Resolve(flagVal, cfgVal, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return def
}
