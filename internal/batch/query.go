package batch

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/gridio"
)

// DefaultAutoLevels is the number of levels picked when a line query names
// none.
const DefaultAutoLevels = 10

// Query selects what to contour in each grid.
type Query struct {
	// Filled requests bands instead of lines.
	Filled bool
	// Levels are explicit line levels, or band edges when Filled.
	Levels []float64
	// AutoLevels picks evenly spaced levels inside the field's range when
	// Levels is empty.
	AutoLevels int
	// Min and Max bound the single band of a filled query without Levels.
	Min, Max *float64
}

// Validate checks the query before any grid is read.
func (q Query) Validate() error {
	if q.AutoLevels < 0 {
		return fmt.Errorf("auto levels must be >= 0, got %d", q.AutoLevels)
	}
	if q.Filled && len(q.Levels) == 1 {
		return errors.New("filled contours need at least two levels")
	}
	if len(q.Levels) > 0 && (q.Min != nil || q.Max != nil) {
		return errors.New("levels and min/max are mutually exclusive")
	}
	return nil
}

// Execute runs the query against gen.
func (q Query) Execute(gen *contours.Generator) (*gridio.Output, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := &gridio.Output{}
	if !q.Filled {
		levels := q.Levels
		if len(levels) == 0 {
			n := q.AutoLevels
			if n == 0 {
				n = DefaultAutoLevels
			}
			levels = gen.AutoLevels(n)
		}
		for _, l := range levels {
			set, err := gen.Lines(l)
			if err != nil {
				return nil, fmt.Errorf("level %g: %w", l, err)
			}
			out.Lines = append(out.Lines, set)
		}
		return out, nil
	}

	for _, b := range q.bands(gen) {
		set, err := gen.Polygons(b)
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", b, err)
		}
		out.Polygons = append(out.Polygons, set)
	}
	return out, nil
}

func (q Query) bands(gen *contours.Generator) []contours.Band {
	edges := q.Levels
	if len(edges) == 0 && q.AutoLevels > 0 && q.Min == nil && q.Max == nil {
		lo, hi, ok := gen.Range()
		if !ok || lo == hi {
			return nil
		}
		edges = append(append([]float64{lo}, gen.AutoLevels(q.AutoLevels)...), hi)
	}
	if len(edges) >= 2 {
		bands := make([]contours.Band, 0, len(edges)-1)
		for i := 1; i < len(edges); i++ {
			bands = append(bands, contours.Between(edges[i-1], edges[i]))
		}
		return bands
	}
	switch {
	case q.Min != nil && q.Max != nil:
		return []contours.Band{contours.Between(*q.Min, *q.Max)}
	case q.Min != nil:
		return []contours.Band{contours.AtLeast(*q.Min)}
	case q.Max != nil:
		return []contours.Band{contours.AtMost(*q.Max)}
	default:
		return []contours.Band{contours.Unbounded()}
	}
}
