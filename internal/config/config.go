// Package config loads the questly.toml configuration file and its
// QUESTLY_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/rudhh/questly/internal/storage"
)

// Config represents the questly.toml configuration file.
type Config struct {
	// DBPath is the sqlite file location; defaults to ~/.questly.db.
	DBPath string `toml:"db-path"`

	// Sound toggles desktop notification cues.
	Sound bool `toml:"sound"`

	// EventBuffer sizes the window-event channel.
	EventBuffer int `toml:"event-buffer"`
}

func Default() Config {
	return Config{
		Sound:       true,
		EventBuffer: 16,
	}
}

// DefaultPath returns ~/.config/questly/questly.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "questly", "questly.toml"), nil
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.DBPath == "" {
		dbPath, err := storage.DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = dbPath
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = Default().EventBuffer
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QUESTLY_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("QUESTLY_SOUND"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sound = b
		}
	}
	if v := os.Getenv("QUESTLY_EVENT_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EventBuffer = n
		}
	}
}
