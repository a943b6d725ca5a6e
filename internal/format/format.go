// Package format turns assembled contours into caller-facing
// representations. Every formatter is a pure function of its input.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MeKo-Tech/contours/internal/assembler"
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Level describes what was contoured. Line contours have Lower == Upper.
type Level struct {
	Lower, Upper float64
	Filled       bool
}

// LineLevel returns the Level of a line contour at v.
func LineLevel(v float64) Level {
	return Level{Lower: v, Upper: v}
}

// BandLevel returns the Level of a filled band.
func BandLevel(lower, upper float64) Level {
	return Level{Lower: lower, Upper: upper, Filled: true}
}

// Value returns the level of a line contour, or the lower bound of a band.
func (l Level) Value() float64 {
	return l.Lower
}

func (l Level) String() string {
	if l.Filled {
		return fmt.Sprintf("[%g, %g]", l.Lower, l.Upper)
	}
	return fmt.Sprintf("%g", l.Lower)
}

// Formatter converts one contour result. vertices holds one path per line
// or, for filled contours, one path per polygon with the exterior ring
// followed by its holes; codes is nil for line contours.
type Formatter func(level Level, vertices [][]utils.Point, codes [][]PathCode) (any, error)

var builtins = map[string]Formatter{
	"null":     Null,
	"numpy":    Numpy,
	"matlab":   Matlab,
	"geometry": Geometry,
}

var aliases = map[string]string{
	"raw":     "null",
	"shapely": "geometry",
	"wkt":     "geometry",
}

// Lookup returns the built-in formatter registered under name.
func Lookup(name string) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	f, ok := builtins[key]
	if !ok {
		return nil, common.NewError(common.ErrUnsupportedFormatter, "lookup",
			"unknown formatter %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names lists the built-in formatter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodeLines lays out assembled lines as vertex paths. Closed lines repeat
// their first vertex at the end.
func EncodeLines(set *assembler.LineSet) [][]utils.Point {
	out := make([][]utils.Point, 0, len(set.Lines))
	for _, l := range set.Lines {
		path := make([]utils.Point, 0, len(l.Points)+1)
		path = append(path, l.Points...)
		if l.Closed && len(l.Points) > 0 {
			path = append(path, l.Points[0])
		}
		out = append(out, path)
	}
	return out
}

// EncodePolygons lays out each polygon as one path: exterior first, then
// holes, every ring opened with MoveTo and closed with a ClosePoly vertex
// repeating the ring's first vertex.
func EncodePolygons(set *assembler.PolygonSet) ([][]utils.Point, [][]PathCode) {
	vertices := make([][]utils.Point, 0, len(set.Polygons))
	codes := make([][]PathCode, 0, len(set.Polygons))
	for _, p := range set.Polygons {
		n := len(p.Exterior) + 1
		for _, h := range p.Holes {
			n += len(h) + 1
		}
		pv := make([]utils.Point, 0, n)
		pc := make([]PathCode, 0, n)
		for _, ring := range append([]assembler.Ring{p.Exterior}, p.Holes...) {
			for i, v := range ring {
				pv = append(pv, v)
				if i == 0 {
					pc = append(pc, MoveTo)
				} else {
					pc = append(pc, LineTo)
				}
			}
			pv = append(pv, ring[0])
			pc = append(pc, ClosePoly)
		}
		vertices = append(vertices, pv)
		codes = append(codes, pc)
	}
	return vertices, codes
}

// SplitRings cuts one filled path into rings at each MoveTo. Each returned
// ring keeps its closing vertex.
func SplitRings(vertices []utils.Point, codes []PathCode) ([][]utils.Point, error) {
	if len(vertices) != len(codes) {
		return nil, common.NewError(common.ErrShapeMismatch, "split_rings",
			"%d vertices but %d codes", len(vertices), len(codes))
	}
	var rings [][]utils.Point
	start := -1
	for i, c := range codes {
		switch c {
		case MoveTo:
			if start >= 0 {
				rings = append(rings, vertices[start:i])
			}
			start = i
		case Stop:
			if start >= 0 {
				rings = append(rings, vertices[start:i])
			}
			return rings, nil
		default:
			if start < 0 {
				return nil, common.NewError(common.ErrAssemblyInconsistency, "split_rings",
					"path starts with %s instead of MOVETO", c)
			}
		}
	}
	if start >= 0 {
		rings = append(rings, vertices[start:])
	}
	return rings, nil
}

func requireCodes(op string, level Level, vertices [][]utils.Point, codes [][]PathCode) error {
	if !level.Filled {
		return nil
	}
	if len(codes) != len(vertices) {
		return common.NewError(common.ErrUnsupportedFormatter, op,
			"filled contour needs one code array per path, got %d for %d paths", len(codes), len(vertices))
	}
	return nil
}
