package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.DataDir != def.DataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, def.DataDir)
	}
	if cfg.ReminderInterval != ReminderInterval {
		t.Fatalf("ReminderInterval = %v, want %v", cfg.ReminderInterval, ReminderInterval)
	}
	if cfg.Theme != ThemeSystem {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, ThemeSystem)
	}
	if !cfg.Notifications {
		t.Fatalf("expected notifications enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: " + dir + "\n" +
		"db_file: custom.db\n" +
		"reminder_interval: 15s\n" +
		"debug: true\n" +
		"theme: dark\n" +
		"notifications: false\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath() != filepath.Join(dir, "custom.db") {
		t.Fatalf("DBPath = %q", cfg.DBPath())
	}
	if cfg.ReminderInterval != 15*time.Second {
		t.Fatalf("ReminderInterval = %v", cfg.ReminderInterval)
	}
	if !cfg.Debug || cfg.Notifications || cfg.Theme != ThemeDark {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("STREAKBOARD_THEME", "light")
	t.Setenv("STREAKBOARD_DEBUG", "true")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != ThemeLight {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, ThemeLight)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug from env")
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "data_dir: " + dir + "\ntheme: neon\nreminder_interval: -5s\ndb_file: \"\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != ThemeSystem {
		t.Fatalf("Theme = %q, want fallback %q", cfg.Theme, ThemeSystem)
	}
	if cfg.ReminderInterval != ReminderInterval {
		t.Fatalf("ReminderInterval = %v, want fallback", cfg.ReminderInterval)
	}
	if cfg.DBFile != DBFileName {
		t.Fatalf("DBFile = %q, want fallback", cfg.DBFile)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config already exists")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatalf("forced WriteDefault failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ReminderInterval != ReminderInterval || cfg.Theme != ThemeSystem {
		t.Fatalf("written defaults did not load back: %+v", cfg)
	}
}
