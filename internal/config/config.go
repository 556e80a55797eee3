package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	MediaDirectories []string `json:"media_directories"`
	DataDir          string   `json:"data_dir"`
	Theme            string   `json:"theme"`
	ScanWorkers      int      `json:"scan_workers"`
	SpectrumBars     int      `json:"spectrum_bars"`
	KeyBindings      KeyMap   `json:"key_bindings"`
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	PlayPause   string `json:"play_pause"`
	Stop        string `json:"stop"`
	Next        string `json:"next"`
	Previous    string `json:"previous"`
	VolumeUp    string `json:"volume_up"`
	VolumeDown  string `json:"volume_down"`
	Mute        string `json:"mute"`
	SeekForward string `json:"seek_forward"`
	SeekBack    string `json:"seek_back"`
	Shuffle     string `json:"shuffle"`
	Repeat      string `json:"repeat"`
	Speed       string `json:"speed"`
	Theme       string `json:"theme"`
	Sidebar     string `json:"sidebar"`
	Quit        string `json:"quit"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		MediaDirectories: []string{},
		DataDir:          "./data",
		Theme:            "dark",
		ScanWorkers:      4,
		SpectrumBars:     16,
		KeyBindings: KeyMap{
			PlayPause:   " ",
			Stop:        "x",
			Next:        "n",
			Previous:    "p",
			VolumeUp:    "+",
			VolumeDown:  "-",
			Mute:        "m",
			SeekForward: "right",
			SeekBack:    "left",
			Shuffle:     "s",
			Repeat:      "r",
			Speed:       ">",
			Theme:       "t",
			Sidebar:     "b",
			Quit:        "q",
		},
	}
}

// Load reads and unmarshals configuration from file, falling back to
// defaults when the file does not exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save marshals and saves configuration to file
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadOrCreate loads config from path, writing the defaults on first
// run, and applies environment overrides on top
func LoadOrCreate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays PLAYHEAD_* environment variables, loading a local
// .env file first if one exists
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("PLAYHEAD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PLAYHEAD_MEDIA_DIR"); v != "" {
		c.MediaDirectories = append(c.MediaDirectories, v)
	}
	if v := os.Getenv("PLAYHEAD_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("PLAYHEAD_SCAN_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			c.ScanWorkers = workers
		}
	}
}

// Path returns the config file path, honoring overrides
func Path() string {
	if path := os.Getenv("PLAYHEAD_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "playhead", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "playhead", "config.json")
}
