package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Theme != "dark" {
		t.Errorf("expected dark theme default, got %s", cfg.Theme)
	}
	if cfg.ScanWorkers != 4 {
		t.Errorf("expected 4 scan workers, got %d", cfg.ScanWorkers)
	}
	if cfg.KeyBindings.PlayPause != " " {
		t.Errorf("unexpected play/pause binding: %q", cfg.KeyBindings.PlayPause)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.MediaDirectories = []string{"/music"}
	cfg.Theme = "light"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "light" {
		t.Errorf("expected light theme, got %s", loaded.Theme)
	}
	if len(loaded.MediaDirectories) != 1 || loaded.MediaDirectories[0] != "/music" {
		t.Errorf("unexpected media directories: %v", loaded.MediaDirectories)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{bad"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if _, err := LoadOrCreate(path); err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file written on first run: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLAYHEAD_DATA_DIR", "/custom/data")
	t.Setenv("PLAYHEAD_SCAN_WORKERS", "8")

	cfg, err := LoadOrCreate(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.DataDir != "/custom/data" {
		t.Errorf("expected data dir override, got %s", cfg.DataDir)
	}
	if cfg.ScanWorkers != 8 {
		t.Errorf("expected 8 scan workers, got %d", cfg.ScanWorkers)
	}
}

func TestPathHonorsOverride(t *testing.T) {
	t.Setenv("PLAYHEAD_CONFIG", "/tmp/custom.json")
	if got := Path(); got != "/tmp/custom.json" {
		t.Errorf("expected /tmp/custom.json, got %s", got)
	}
}
