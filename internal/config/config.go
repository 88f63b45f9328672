package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Tracking TrackingConfig `toml:"tracking"`
	Odometer OdometerConfig `toml:"odometer"`
	Host     HostConfig     `toml:"host"`
	Display  DisplayConfig  `toml:"display"`
	Tee      TeeConfig      `toml:"tee"`
	Server   ServerConfig   `toml:"server"`
}

type TrackingConfig struct {
	DataDir            string `toml:"data_dir" validate:"required"`
	SnapshotIntervalMS int    `toml:"snapshot_interval_ms" validate:"gte=100"`
	HistoryDB          string `toml:"history_db"`
}

type OdometerConfig struct {
	Extruders       int  `toml:"extruders" validate:"gte=1,ltefield=MaxExtruders"`
	MaxExtruders    int  `toml:"max_extruders" validate:"gte=1,lte=32"`
	G90Extruder     bool `toml:"g90_extruder"`
	DuplicationMode bool `toml:"duplication_mode"`
}

type HostConfig struct {
	EventsDir string `toml:"events_dir"`
	EventMap  string `toml:"event_map" validate:"required"`
}

type DisplayConfig struct {
	Color bool `toml:"color"`
}

type TeeConfig struct {
	Enabled  bool   `toml:"enabled"`
	Mode     string `toml:"mode" validate:"oneof=failures always never"`
	MaxFiles int    `toml:"max_files" validate:"gte=1"`
	MaxLines int    `toml:"max_lines" validate:"gte=1"`
}

type ServerConfig struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Tracking: TrackingConfig{
			DataDir:            filepath.Join(home, ".local", "share", "printmeter"),
			SnapshotIntervalMS: 1000,
		},
		Odometer: OdometerConfig{
			Extruders:    1,
			MaxExtruders: 10,
		},
		Host: HostConfig{
			EventsDir: filepath.Join(home, ".config", "printmeter", "events"),
			EventMap:  "octoprint",
		},
		Display: DisplayConfig{
			Color: true,
		},
		Tee: TeeConfig{
			Enabled:  true,
			Mode:     "failures",
			MaxFiles: 20,
			MaxLines: 200,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5080",
		},
	}
}

// Load reads config from file, merging with defaults. Returns defaults if file missing.
// Environment overrides are applied before validation.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := Path()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dir := os.Getenv("PRINTMETER_DATA_DIR"); dir != "" {
		c.Tracking.DataDir = dir
	}
	if os.Getenv("PRINTMETER_TEE") == "0" {
		c.Tee.Enabled = false
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and reports every violation in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Path returns the config file location, honoring PRINTMETER_CONFIG.
func Path() string {
	if p := os.Getenv("PRINTMETER_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "printmeter", "config.toml")
}
