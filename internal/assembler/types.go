// Package assembler stitches traced segments into polylines and rings,
// normalizes ring orientation and attaches holes to their exteriors.
package assembler

import (
	"log/slog"

	"github.com/MeKo-Tech/contours/internal/utils"
)

// Line is one connected component of a line contour. Closed lines do not
// repeat their first vertex.
type Line struct {
	Points []utils.Point
	Closed bool
}

// Degenerate reports whether the line has a single distinct vertex.
func (l Line) Degenerate() bool {
	return utils.DistinctCount(l.Points) <= 1
}

// Ring is a closed loop without a repeated closing vertex.
type Ring []utils.Point

// Degenerate reports whether the ring has a single distinct vertex.
func (r Ring) Degenerate() bool {
	return utils.DistinctCount(r) <= 1
}

// Polygon is an exterior ring (counter-clockwise) with its holes (clockwise).
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// LineSet is the assembled result of a line contour.
type LineSet struct {
	Level float64
	Lines []Line
}

// PolygonSet is the assembled result of a filled band.
type PolygonSet struct {
	Lower, Upper float64
	Polygons     []Polygon
	// DroppedHoles counts holes excluded because no exterior contained them.
	DroppedHoles int
}

// Options tunes polygon assembly.
type Options struct {
	// DropUnmatchedHoles excludes holes that no exterior contains instead
	// of failing the whole query.
	DropUnmatchedHoles bool
	Logger             *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
