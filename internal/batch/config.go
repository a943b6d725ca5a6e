package batch

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/MeKo-Tech/contours/internal/gridio"
)

// Config holds all configuration for batch processing.
type Config struct {
	Query Query

	DropUnmatchedHoles bool
	Simplify           float64
	Image              gridio.ImageOptions

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output settings. Per-file results are written to OutputDir when set.
	OutputDir       string
	OutputFormat    string
	Precision       int
	ContinueOnError bool

	Progress ProgressCallback
	Logger   *slog.Logger
}

var outputExtensions = map[string]string{
	gridio.OutputJSON:   ".json",
	gridio.OutputYAML:   ".yaml",
	gridio.OutputWKT:    ".wkt",
	gridio.OutputMatlab: ".txt",
	gridio.OutputText:   ".txt",
}

// Validate reports configuration errors before any file is touched.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if c.Simplify < 0 {
		return errors.New("simplify tolerance must be >= 0")
	}
	if c.OutputFormat != "" {
		if _, ok := outputExtensions[c.OutputFormat]; !ok {
			return errors.New("unsupported output format: " + c.OutputFormat)
		}
	}
	return c.Query.Validate()
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) outputFormat() string {
	if c.OutputFormat == "" {
		return gridio.OutputJSON
	}
	return c.OutputFormat
}

// OutputFormats lists the formats Config.OutputFormat accepts.
func OutputFormats() []string {
	out := make([]string, 0, len(outputExtensions))
	for f := range outputExtensions {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
