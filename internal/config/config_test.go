package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "questly.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Sound {
		t.Fatal("sound disabled by default")
	}
	if cfg.EventBuffer != 16 {
		t.Fatalf("eventBuffer = %d, want 16", cfg.EventBuffer)
	}
	if cfg.DBPath == "" {
		t.Fatal("empty db path")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questly.toml")
	body := "db-path = \"/tmp/test.db\"\nsound = false\nevent-buffer = 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" || cfg.Sound || cfg.EventBuffer != 4 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questly.toml")
	if err := os.WriteFile(path, []byte("db-path = ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QUESTLY_DB_PATH", "/tmp/env.db")
	t.Setenv("QUESTLY_SOUND", "false")
	t.Setenv("QUESTLY_EVENT_BUFFER", "32")

	cfg, err := Load(filepath.Join(t.TempDir(), "questly.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" || cfg.Sound || cfg.EventBuffer != 32 {
		t.Fatalf("cfg = %+v", cfg)
	}
}
