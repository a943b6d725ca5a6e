package contours

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/contours/internal/assembler"
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/format"
	"github.com/MeKo-Tech/contours/internal/grid"
	"github.com/MeKo-Tech/contours/internal/tracer"
)

// Structured results, before formatting.
type (
	Line       = assembler.Line
	LineSet    = assembler.LineSet
	Ring       = assembler.Ring
	Polygon    = assembler.Polygon
	PolygonSet = assembler.PolygonSet
)

// Generator contours one immutable grid. It is safe for concurrent use.
type Generator struct {
	grid      *grid.Grid
	formatter Formatter
	logger    *slog.Logger
	dropHoles bool
}

// NewUniform builds a Generator over z with implicit coordinates; see
// WithOrigin and WithStep.
func NewUniform(z [][]float64, opts ...Option) (*Generator, error) {
	c := newConfig(opts)
	g, err := grid.FromUniform(z, c.gridOpts...)
	if err != nil {
		return nil, err
	}
	return newGenerator(g, c)
}

// NewRectilinear builds a Generator from per-axis coordinates: x has one
// entry per column of z and y one per row.
func NewRectilinear(x, y []float64, z [][]float64, opts ...Option) (*Generator, error) {
	c := newConfig(opts)
	g, err := grid.FromRectilinear(x, y, z, c.gridOpts...)
	if err != nil {
		return nil, err
	}
	return newGenerator(g, c)
}

// NewCurvilinear builds a Generator from full 2-D coordinate arrays.
func NewCurvilinear(x, y, z [][]float64, opts ...Option) (*Generator, error) {
	c := newConfig(opts)
	g, err := grid.FromCurvilinear(x, y, z, c.gridOpts...)
	if err != nil {
		return nil, err
	}
	return newGenerator(g, c)
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

func newGenerator(g *grid.Grid, c config) (*Generator, error) {
	f := c.formatter
	switch {
	case c.formatterName != "":
		var err error
		if f, err = format.Lookup(c.formatterName); err != nil {
			return nil, err
		}
	case !c.formatterSet:
		f = format.Numpy
	case f == nil:
		return nil, &common.ContourError{Kind: common.ErrUnsupportedFormatter, Operation: "new_generator"}
	}
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Generator created", "rows", g.Rows(), "cols", g.Cols())
	return &Generator{grid: g, formatter: f, logger: logger, dropHoles: c.dropHoles}, nil
}

// Rows returns the number of grid rows.
func (g *Generator) Rows() int { return g.grid.Rows() }

// Cols returns the number of grid columns.
func (g *Generator) Cols() int { return g.grid.Cols() }

// Range returns the minimum and maximum of the valid field values.
func (g *Generator) Range() (lo, hi float64, ok bool) { return g.grid.Range() }

// Lines traces and assembles the contour at level without formatting.
func (g *Generator) Lines(level float64) (*LineSet, error) {
	const op = "contour"
	if !isFinite(level) {
		return nil, common.NewError(common.ErrInvalidLevel, op, "level %g is not finite", level)
	}
	timer := common.NewTimer()
	res := tracer.TraceLine(g.grid, level)
	set, err := assembler.AssembleLines(res)
	if err != nil {
		return nil, err
	}
	timer.Stop()
	g.logger.Debug("Contour traced",
		"level", level,
		"segments", len(res.Segments),
		"saddles", res.Stats.SaddleCells,
		"lines", len(set.Lines),
		"duration_ms", timer.Milliseconds())
	return set, nil
}

// Polygons traces and assembles the filled band without formatting.
func (g *Generator) Polygons(b Band) (*PolygonSet, error) {
	const op = "filled_contour"
	if err := b.validate(); err != nil {
		return nil, &common.ContourError{Kind: common.ErrInvalidLevel, Operation: op, Err: err}
	}
	lo, hi := b.bounds()
	timer := common.NewTimer()
	res := tracer.TraceBand(g.grid, lo, hi)
	set, err := assembler.AssemblePolygons(res, assembler.Options{
		DropUnmatchedHoles: g.dropHoles,
		Logger:             g.logger,
	})
	if err != nil {
		return nil, err
	}
	timer.Stop()
	g.logger.Debug("Filled contour traced",
		"band", b.String(),
		"segments", len(res.Segments),
		"saddles", res.Stats.SaddleCells,
		"polygons", len(set.Polygons),
		"dropped_holes", set.DroppedHoles,
		"duration_ms", timer.Milliseconds())
	return set, nil
}

// Contour returns the formatted contour lines at level. A level outside
// the field's range yields an empty result.
func (g *Generator) Contour(level float64) (any, error) {
	set, err := g.Lines(level)
	if err != nil {
		return nil, err
	}
	return g.formatter(format.LineLevel(level), format.EncodeLines(set), nil)
}

// FilledContour returns the formatted polygons of the band, holes attached.
func (g *Generator) FilledContour(b Band) (any, error) {
	set, err := g.Polygons(b)
	if err != nil {
		return nil, err
	}
	vertices, codes := format.EncodePolygons(set)
	return g.formatter(format.BandLevel(set.Lower, set.Upper), vertices, codes)
}

// ContourLevels runs Contour for each level in order.
func (g *Generator) ContourLevels(levels []float64) ([]any, error) {
	out := make([]any, 0, len(levels))
	for _, level := range levels {
		r, err := g.Contour(level)
		if err != nil {
			return nil, fmt.Errorf("level %g: %w", level, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// FilledBands runs FilledContour for each pair of consecutive levels.
func (g *Generator) FilledBands(levels []float64) ([]any, error) {
	if len(levels) < 2 {
		return nil, common.NewError(common.ErrInvalidLevel, "filled_bands", "need at least two levels, got %d", len(levels))
	}
	out := make([]any, 0, len(levels)-1)
	for i := 1; i < len(levels); i++ {
		b := Between(levels[i-1], levels[i])
		r, err := g.FilledContour(b)
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", b, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// AutoLevels returns n evenly spaced levels strictly inside the field's
// range. It returns nil for n < 1 or a field without distinct values.
func (g *Generator) AutoLevels(n int) []float64 {
	lo, hi, ok := g.grid.Range()
	if !ok || n < 1 || lo == hi {
		return nil
	}
	step := (hi - lo) / float64(n+1)
	levels := make([]float64, n)
	for i := range levels {
		levels[i] = lo + float64(i+1)*step
	}
	return levels
}
