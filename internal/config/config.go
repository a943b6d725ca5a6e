package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Output formats understood by the CLI writers.
var validOutputFormats = []string{"json", "yaml", "wkt", "matlab", "text"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Contour: ContourConfig{
			AutoLevels: 0,
		},
		Output: OutputConfig{
			Format:    "json",
			Precision: 6,
		},
		Batch: BatchConfig{
			Workers:         4,
			Include:         []string{"*.json", "*.yaml", "*.yml", "*.csv", "*.asc", "*.png", "*.tif", "*.tiff"},
			ContinueOnError: false,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxGridCells:    4_000_000,
			MaxBodyMB:       32,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 60,
				RequestsPerHour:   1000,
				MaxRequestsPerDay: 5000,
				MaxDataPerDay:     100 * 1024 * 1024,
			},
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if err := c.Contour.validate(); err != nil {
		return err
	}

	if c.Output.Format != "" && !slices.Contains(validOutputFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validOutputFormats, ", "))
	}
	if c.Output.Simplify < 0 || math.IsNaN(c.Output.Simplify) {
		return fmt.Errorf("invalid simplify tolerance: %g (must be >= 0)", c.Output.Simplify)
	}
	if c.Output.Precision < -1 || c.Output.Precision > 17 {
		return fmt.Errorf("invalid output precision: %d (must be between -1 and 17)", c.Output.Precision)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxGridCells <= 0 {
		return fmt.Errorf("invalid max grid cells: %d (must be positive)", c.Server.MaxGridCells)
	}
	if c.Server.MaxBodyMB <= 0 {
		return fmt.Errorf("invalid max body size: %d (must be positive)", c.Server.MaxBodyMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	return nil
}

func (c ContourConfig) validate() error {
	if c.AutoLevels < 0 {
		return fmt.Errorf("invalid auto levels: %d (must be >= 0)", c.AutoLevels)
	}
	for i, l := range c.Levels {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return fmt.Errorf("invalid level at index %d: %g", i, l)
		}
		if i > 0 && l <= c.Levels[i-1] {
			return fmt.Errorf("levels must be strictly increasing: %g after %g", l, c.Levels[i-1])
		}
	}
	if c.Min != nil && c.Max != nil && *c.Min >= *c.Max {
		return fmt.Errorf("contour min %g must be less than max %g", *c.Min, *c.Max)
	}
	return nil
}
