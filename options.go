package contours

import (
	"log/slog"

	"github.com/MeKo-Tech/contours/internal/format"
	"github.com/MeKo-Tech/contours/internal/grid"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Point is a 2-D vertex.
type Point = utils.Point

// PathCode tags a vertex's role in a drawing path.
type PathCode = format.PathCode

// Drawing codes.
const (
	Stop      = format.Stop
	MoveTo    = format.MoveTo
	LineTo    = format.LineTo
	ClosePoly = format.ClosePoly
)

// Level describes the contour a formatter is called for.
type Level = format.Level

// Formatter converts one contour result into a caller-defined
// representation. codes is nil for line contours.
type Formatter = format.Formatter

// Built-in formatters.
var (
	NullFormatter     Formatter = format.Null
	NumpyFormatter    Formatter = format.Numpy
	MatlabFormatter   Formatter = format.Matlab
	GeometryFormatter Formatter = format.Geometry
)

// Option configures a Generator.
type Option func(*config)

type config struct {
	formatter     Formatter
	formatterSet  bool
	formatterName string
	gridOpts      []grid.Option
	logger        *slog.Logger
	dropHoles     bool
}

// WithFormatter selects the formatter applied to every query result.
// The default is NumpyFormatter.
func WithFormatter(f Formatter) Option {
	return func(c *config) {
		c.formatter = f
		c.formatterSet = true
		c.formatterName = ""
	}
}

// WithFormatterName selects a built-in formatter by name: null, numpy,
// matlab or geometry.
func WithFormatterName(name string) Option {
	return func(c *config) {
		c.formatterName = name
	}
}

// WithMask marks nodes as missing where mask is true.
func WithMask(mask [][]bool) Option {
	return func(c *config) {
		c.gridOpts = append(c.gridOpts, grid.WithMask(mask))
	}
}

// WithOrigin sets the coordinates of node (0, 0) of a uniform grid.
func WithOrigin(x, y float64) Option {
	return func(c *config) {
		c.gridOpts = append(c.gridOpts, grid.WithOrigin(x, y))
	}
}

// WithStep sets the node spacing of a uniform grid.
func WithStep(dx, dy float64) Option {
	return func(c *config) {
		c.gridOpts = append(c.gridOpts, grid.WithStep(dx, dy))
	}
}

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithDropUnmatchedHoles excludes holes that no exterior contains instead
// of failing the query with ErrAssemblyInconsistency.
func WithDropUnmatchedHoles(drop bool) Option {
	return func(c *config) {
		c.dropHoles = drop
	}
}
