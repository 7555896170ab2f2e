package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/tordrt/dbblueprint/internal/formatter"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "DBBLUEPRINT_"

// DefaultPath is the config file read when no path is given and it exists
const DefaultPath = "dbblueprint.yaml"

// Config represents the application configuration
type Config struct {
	URL            string   `yaml:"url"             env:"URL"`
	Connection     string   `yaml:"connection"      env:"CONNECTION"`
	Schema         string   `yaml:"schema"          env:"SCHEMA"`
	Tables         []string `yaml:"tables"          env:"TABLES"          envSeparator:","`
	ExcludeTables  []string `yaml:"exclude_tables"  env:"EXCLUDE_TABLES"  envSeparator:","`
	Format         string   `yaml:"format"          env:"FORMAT"`
	Output         string   `yaml:"output"          env:"OUTPUT"`
	OutputDir      string   `yaml:"output_dir"      env:"OUTPUT_DIR"`
	SplitThreshold int      `yaml:"split_threshold" env:"SPLIT_THRESHOLD"`
	LogLevel       string   `yaml:"log_level"       env:"LOG_LEVEL"`
}

// Formats lists the accepted output formats
var Formats = []string{"text", "markdown", "yaml"}

// Load loads configuration from file and environment variables
func Load(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides loads configuration with optional command-line flag overrides.
// Precedence is flags, then environment, then file, then defaults.
func LoadWithOverrides(path string, flagOverrides map[string]any) (*Config, error) {
	config := &Config{}

	configPath, required := resolvePath(path)
	if err := loadFile(config, configPath, required); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := applyFlagOverrides(config, flagOverrides); err != nil {
		return nil, fmt.Errorf("failed to apply flag overrides: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// resolvePath returns the config file to read and whether it must exist
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path, true
	}
	return DefaultPath, false
}

func loadFile(config *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyFlagOverrides applies command-line flag overrides to configuration
func applyFlagOverrides(config *Config, overrides map[string]any) error {
	for key, value := range overrides {
		switch key {
		case "url":
			config.URL = stringValue(value, config.URL)
		case "connection":
			config.Connection = stringValue(value, config.Connection)
		case "schema":
			config.Schema = stringValue(value, config.Schema)
		case "format":
			config.Format = stringValue(value, config.Format)
		case "output":
			config.Output = stringValue(value, config.Output)
		case "output-dir":
			config.OutputDir = stringValue(value, config.OutputDir)
		case "log-level":
			config.LogLevel = stringValue(value, config.LogLevel)
		case "tables":
			config.Tables = listValue(value, config.Tables)
		case "exclude":
			config.ExcludeTables = listValue(value, config.ExcludeTables)
		case "split-threshold":
			n, ok := value.(int)
			if !ok {
				return fmt.Errorf("split-threshold must be an int, got %T", value)
			}
			config.SplitThreshold = n
		default:
			return fmt.Errorf("unknown flag override: %s", key)
		}
	}
	return nil
}

func stringValue(value any, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}

// listValue accepts a slice or a comma-separated string
func listValue(value any, fallback []string) []string {
	switch v := value.(type) {
	case []string:
		if len(v) > 0 {
			return v
		}
	case string:
		if v != "" {
			return SplitList(v)
		}
	}
	return fallback
}

// SplitList splits a comma-separated list and trims each entry
func SplitList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = formatter.DefaultFormat
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate validates the configuration for common errors
func (c *Config) Validate() error {
	validFormat := false
	for _, f := range Formats {
		if c.Format == f {
			validFormat = true
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid format: %s (must be one of %s)", c.Format, strings.Join(Formats, ", "))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Output != "" && c.OutputDir != "" {
		return fmt.Errorf("output and output_dir cannot both be set")
	}

	if c.SplitThreshold < 0 {
		return fmt.Errorf("split threshold must not be negative: %d", c.SplitThreshold)
	}

	return nil
}

// Level returns the parsed log level; Validate guarantees it parses
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
