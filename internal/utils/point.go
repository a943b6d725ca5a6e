// Package utils holds the planar geometry helpers shared by the tracer,
// assembler and formatters.
package utils

import (
	"math"

	"github.com/golang/geo/r2"
)

// Point is a 2-D vertex in either index space or physical coordinates.
type Point = r2.Point

// Bounds returns the bounding rectangle of pts. An empty slice yields an
// empty rectangle.
func Bounds(pts []Point) r2.Rect {
	if len(pts) == 0 {
		return r2.EmptyRect()
	}
	return r2.RectFromPoints(pts...)
}

// Equal reports whether two points are bit-identical.
func Equal(a, b Point) bool {
	return a.X == b.X && a.Y == b.Y
}

// Finite reports whether both coordinates of p are finite.
func Finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// DedupeConsecutive drops vertices equal to their predecessor. For closed
// rings a trailing vertex equal to the first one is dropped as well. At
// least one vertex is always kept when the input is non-empty.
func DedupeConsecutive(pts []Point, closed bool) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if !Equal(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	if closed {
		for len(out) > 1 && Equal(out[len(out)-1], out[0]) {
			out = out[:len(out)-1]
		}
	}
	return out
}

// Reverse reverses pts in place.
func Reverse(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// DistinctCount returns the number of distinct vertices in pts.
func DistinctCount(pts []Point) int {
	seen := make(map[Point]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
	}
	return len(seen)
}
