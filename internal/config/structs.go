//nolint:lll
package config

// Config represents the complete configuration for the contours tool.
// It includes settings for all commands (lines, filled, batch, serve) and
// supports loading from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Contour query configuration
	Contour ContourConfig `mapstructure:"contour" yaml:"contour" json:"contour"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// ContourConfig contains the contour query settings.
type ContourConfig struct {
	Levels             []float64 `mapstructure:"levels" yaml:"levels" json:"levels"`
	AutoLevels         int       `mapstructure:"auto_levels" yaml:"auto_levels" json:"auto_levels"`
	Min                *float64  `mapstructure:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Max                *float64  `mapstructure:"max" yaml:"max,omitempty" json:"max,omitempty"`
	DropUnmatchedHoles bool      `mapstructure:"drop_unmatched_holes" yaml:"drop_unmatched_holes" json:"drop_unmatched_holes"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format    string  `mapstructure:"format" yaml:"format" json:"format"`
	File      string  `mapstructure:"file" yaml:"file" json:"file"`
	Simplify  float64 `mapstructure:"simplify" yaml:"simplify" json:"simplify"`
	Precision int     `mapstructure:"precision" yaml:"precision" json:"precision"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	OutputDir       string   `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxGridCells    int             `mapstructure:"max_grid_cells" yaml:"max_grid_cells" json:"max_grid_cells"`
	MaxBodyMB       int             `mapstructure:"max_body_mb" yaml:"max_body_mb" json:"max_body_mb"`
	TimeoutSec      int             `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains per-client request limits for the server.
type RateLimitConfig struct {
	Enabled           bool  `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day" yaml:"max_data_per_day" json:"max_data_per_day"`
}
