package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/yousuf/jstrace/internal/jsstack"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	// Address the MCP server listens on, e.g. ":3000"
	Listen string `yaml:"listen"`
	// Runtime assumed for traces that do not name one
	Runtime string `yaml:"runtime"`
	// Runtime version, only reported in errors
	RuntimeVersion string `yaml:"runtime_version,omitempty"`
	// Innermost frames included in the duphash, 0 for all
	DuphashFrames int `yaml:"duphash_frames"`
	// zerolog level name
	LogLevel string `yaml:"log_level"`
	// Source maps preloaded into every session, generated file name -> map path
	SourceMaps map[string]string `yaml:"source_maps,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Listen:        ":3000",
		Runtime:       jsstack.RuntimeNodeJS.String(),
		DuphashFrames: 3,
		LogLevel:      zerolog.LevelInfoValue,
	}
}

// Load reads and parses the configuration file. JSON files are accepted too.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Platform resolves the configured runtime
func (c *Config) Platform() (jsstack.Platform, error) {
	return jsstack.PlatformFromString(c.Runtime, c.RuntimeVersion)
}

// Level parses the configured log level
func (c *Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.LogLevel)
}

// Validate checks if the configuration is valid, reporting every problem found
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Listen == "" {
		result = multierror.Append(result, fmt.Errorf("listen address is required"))
	}
	if _, err := c.Platform(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.DuphashFrames < 0 {
		result = multierror.Append(result, fmt.Errorf("duphash_frames must not be negative, got %d", c.DuphashFrames))
	}
	if _, err := c.Level(); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level: %w", err))
	}
	for name, path := range c.SourceMaps {
		if path == "" {
			result = multierror.Append(result, fmt.Errorf("source map for %q: path is required", name))
		}
	}

	return result.ErrorOrNil()
}
