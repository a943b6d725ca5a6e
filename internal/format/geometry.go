package format

import (
	"github.com/peterstace/simplefeatures/geom"

	"github.com/MeKo-Tech/contours/internal/utils"
)

// Geometry returns simplefeatures geometries. Lines become LineStrings, or
// Points when they collapse to a single vertex. Filled paths become Polygons
// with their holes; rings with fewer than three distinct vertices bound no
// area and are dropped, and a polygon whose exterior is dropped goes with it.
func Geometry(level Level, vertices [][]utils.Point, codes [][]PathCode) (any, error) {
	const op = "geometry_formatter"
	if err := requireCodes(op, level, vertices, codes); err != nil {
		return nil, err
	}
	out := make([]geom.Geometry, 0, len(vertices))
	if !level.Filled {
		for _, path := range vertices {
			if len(path) == 0 {
				continue
			}
			if utils.DistinctCount(path) == 1 {
				out = append(out, geom.XY{X: path[0].X, Y: path[0].Y}.AsPoint().AsGeometry())
				continue
			}
			out = append(out, lineString(path).AsGeometry())
		}
		return out, nil
	}
	for i, path := range vertices {
		rings, err := SplitRings(path, codes[i])
		if err != nil {
			return nil, err
		}
		if len(rings) == 0 || !RingHasArea(rings[0]) {
			continue
		}
		kept := make([]geom.LineString, 0, len(rings))
		kept = append(kept, lineString(rings[0]))
		for _, hole := range rings[1:] {
			if RingHasArea(hole) {
				kept = append(kept, lineString(hole))
			}
		}
		out = append(out, geom.NewPolygon(kept).AsGeometry())
	}
	return out, nil
}

// RingHasArea reports whether a ring has at least three distinct vertices.
func RingHasArea(ring []utils.Point) bool {
	return utils.DistinctCount(ring) >= 3
}

func lineString(pts []utils.Point) geom.LineString {
	coords := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		coords = append(coords, p.X, p.Y)
	}
	return geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
}
