// Package config loads circuits settings from defaults, an optional YAML
// file and CIRCUITS_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of the editor, the CLI and the live server.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Editor  EditorConfig  `yaml:"editor"`
	Library LibraryConfig `yaml:"library"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig sizes the fresh grid used when nothing is loaded.
type GridConfig struct {
	Width  int `yaml:"width" env:"CIRCUITS_GRID_WIDTH"`
	Height int `yaml:"height" env:"CIRCUITS_GRID_HEIGHT"`
}

// EditorConfig configures the interactive window.
type EditorConfig struct {
	WindowWidth    int     `yaml:"window_width" env:"CIRCUITS_WINDOW_WIDTH"`
	WindowHeight   int     `yaml:"window_height" env:"CIRCUITS_WINDOW_HEIGHT"`
	TicksPerSecond float64 `yaml:"ticks_per_second" env:"CIRCUITS_TICKS_PER_SECOND"`
	// ViewCells is how many cells fit across the shorter window side at zoom 1.
	ViewCells float64 `yaml:"view_cells" env:"CIRCUITS_VIEW_CELLS"`
	// ShareBaseURL prefixes the save string when copying a share link.
	// Empty copies the bare save string.
	ShareBaseURL string `yaml:"share_base_url" env:"CIRCUITS_SHARE_BASE_URL"`
	SnapshotPath string `yaml:"snapshot_path" env:"CIRCUITS_SNAPSHOT_PATH"`
	SessionName  string `yaml:"session_name" env:"CIRCUITS_SESSION_NAME"`
}

// LibraryConfig locates the sqlite circuit library.
type LibraryConfig struct {
	Path string `yaml:"path" env:"CIRCUITS_LIBRARY_PATH"`
}

// ServerConfig configures the live session server.
type ServerConfig struct {
	Addr       string        `yaml:"addr" env:"CIRCUITS_SERVER_ADDR"`
	TickRateHz int           `yaml:"tick_rate_hz" env:"CIRCUITS_SERVER_TICK_RATE_HZ"`
	MaxClients int           `yaml:"max_clients" env:"CIRCUITS_SERVER_MAX_CLIENTS"`
	WriteWait  time.Duration `yaml:"write_wait" env:"CIRCUITS_SERVER_WRITE_WAIT"`
}

// LoggingConfig sets the log verbosity: "info" (default), "debug" or "trace".
type LoggingConfig struct {
	Level string `yaml:"level" env:"CIRCUITS_LOG_LEVEL"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		Grid: GridConfig{Width: 10, Height: 10},
		Editor: EditorConfig{
			WindowWidth:    1280,
			WindowHeight:   800,
			TicksPerSecond: 10,
			ViewCells:      10,
			SnapshotPath:   "circuit.snap",
			SessionName:    "scratch",
		},
		Library: LibraryConfig{Path: defaultLibraryPath()},
		Server: ServerConfig{
			Addr:       ":8080",
			TickRateHz: 5,
			MaxClients: 32,
			WriteWait:  5 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func defaultLibraryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "circuits.db"
	}
	return filepath.Join(dir, "circuits", "library.db")
}

// Load applies the YAML file at path (skipped when path is empty or the
// file does not exist) and then environment overrides on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads the YAML file at path over the defaults. Unlike Load
// a missing file is an error.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Validate checks ranges that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Editor.TicksPerSecond < 0 {
		return fmt.Errorf("ticks_per_second must be non-negative, got %f", c.Editor.TicksPerSecond)
	}
	if c.Editor.ViewCells <= 0 {
		return fmt.Errorf("view_cells must be positive, got %f", c.Editor.ViewCells)
	}
	if c.Server.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", c.Server.TickRateHz)
	}
	if c.Server.MaxClients <= 0 {
		return fmt.Errorf("max_clients must be positive, got %d", c.Server.MaxClients)
	}
	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, warn, error)", c.Logging.Level)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
