// Package config loads host settings from a YAML file layered with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pienaaranker/storypoints-sub000/internal/curriculum"
)

// Config holds all storypoints host configuration.
type Config struct {
	// Learner names the profile whose progress is loaded and saved.
	Learner string `yaml:"learner" validate:"required,max=64"`

	// DatabasePath overrides the default SQLite location.
	DatabasePath string `yaml:"database_path"`

	// CatalogPath points at a custom content catalog; empty uses the built-in one.
	CatalogPath string `yaml:"catalog_path"`

	// SuccessThreshold is the accuracy at which an attempt counts as a success.
	SuccessThreshold float64 `yaml:"success_threshold" validate:"gt=0,lte=1"`

	// SnapshotsToKeep bounds how many snapshots are retained per learner.
	SnapshotsToKeep int `yaml:"snapshots_to_keep" validate:"gte=1"`

	// Checkpoints adjusts the mastery criteria of individual checkpoints.
	Checkpoints []curriculum.Override `yaml:"checkpoints"`

	Logging LoggingConfig `yaml:"logging"`
	Coach   CoachConfig   `yaml:"coach"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"` // Empty logs to stderr (CLI) or the default log file (TUI)
}

// CoachConfig configures the LLM-backed practice coach.
type CoachConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"`
}

// HintTimeout returns the coach request timeout, defaulting to 20s.
func (c CoachConfig) HintTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 20 * time.Second
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Learner:          "default",
		SuccessThreshold: 0.7,
		SnapshotsToKeep:  5,
		Logging: LoggingConfig{
			Level: "info",
		},
		Coach: CoachConfig{
			Enabled: true,
			Timeout: "20s",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STORYPOINTS_LEARNER"); v != "" {
		c.Learner = v
	}
	if v := os.Getenv("STORYPOINTS_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("STORYPOINTS_CATALOG"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("STORYPOINTS_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STORYPOINTS_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("STORYPOINTS_COACH"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Coach.Enabled = on
		}
	}
}

var validate = validator.New()

// Validate checks field constraints and the checkpoint overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Curriculum(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Curriculum builds the checkpoint criteria with the configured overrides.
func (c *Config) Curriculum() (curriculum.Config, error) {
	return curriculum.NewConfig(c.Checkpoints...)
}

// DefaultPath resolves the config file path in priority order:
// 1. STORYPOINTS_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/storypoints/config.yaml
// 3. ~/.config/storypoints/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("STORYPOINTS_CONFIG"); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "storypoints", "config.yaml"), nil
}

// DefaultLogPath is where logs go when no file is configured.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "storypoints", "storypoints.log"), nil
}
