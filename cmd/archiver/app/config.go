package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Input    InputConfig   `yaml:"input"`
	Storage  StorageConfig `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level. An empty level defaults to info.
func (s Settings) Level() (slog.Level, error) {
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("parsing log level: %w", err)
	}
	return level, nil
}

// InputConfig represents deployment document input settings
type InputConfig struct {
	Paths       []string `yaml:"paths"`
	Workers     int      `yaml:"workers"`
	CheckedOnly bool     `yaml:"checkedOnly"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// LoadConfig reads, parses and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for gaps a run cannot recover from.
func (c *Config) Validate() error {
	if len(c.Input.Paths) == 0 {
		return fmt.Errorf("no input paths specified in configuration")
	}
	if c.Input.Workers < 0 {
		return fmt.Errorf("invalid workers count %d", c.Input.Workers)
	}
	if _, err := c.Settings.Level(); err != nil {
		return err
	}
	return nil
}
