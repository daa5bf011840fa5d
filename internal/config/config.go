// Package config loads the YAML configuration shared by the terminal UI
// and the export commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/epicycles/internal/epicycle"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the configuration file.
type Config struct {
	Animation epicycle.Config `yaml:"animation"`
	Banner    BannerConfig    `yaml:"banner"`
	Logging   LoggingConfig   `yaml:"logging"`
	// Watch reloads an SVG shape when its file changes.
	Watch bool `yaml:"watch"`
}

// BannerConfig drives the typewriter line above the animation.
type BannerConfig struct {
	Messages    []string      `yaml:"messages"`
	TypeDelay   time.Duration `yaml:"type_delay"`
	DeleteDelay time.Duration `yaml:"delete_delay"`
	Hold        time.Duration `yaml:"hold"`
	Gap         time.Duration `yaml:"gap"`
}

// LoggingConfig selects the log level and destination. With no file the
// terminal UI does not log at all.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Animation: epicycle.DefaultConfig(),
		Banner: BannerConfig{
			Messages: []string{
				"Every closed curve is a sum of circles",
				"Drawing with epicycles",
				"Press + or - to change the number of terms",
				"Point me at any SVG path",
			},
			TypeDelay:   80 * time.Millisecond,
			DeleteDelay: 40 * time.Millisecond,
			Hold:        time.Second,
			Gap:         500 * time.Millisecond,
		},
		Logging: LoggingConfig{Level: "info"},
		Watch:   true,
	}
}

// DefaultPath is the per-user configuration file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "epicycles.yaml"
	}
	return filepath.Join(dir, "epicycles", "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EPICYCLES_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("EPICYCLES_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the animation settings and the log level.
func (c *Config) Validate() error {
	if err := c.Animation.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	level := strings.ToLower(c.Logging.Level)
	valid := false
	for _, l := range validLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: log level %q (valid: %v)", ErrInvalid, c.Logging.Level, validLevels)
	}
	if len(c.Banner.Messages) > 0 && c.Banner.TypeDelay <= 0 {
		return fmt.Errorf("%w: banner type_delay must be positive", ErrInvalid)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
