package utils

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPoint generates a random point.
func genPoint() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	).Map(func(vals []interface{}) Point {
		return Point{X: vals[0].(float64), Y: vals[1].(float64)}
	})
}

// genPolyline generates a random polyline with a fixed size.
func genPolyline(size int) gopter.Gen {
	return gen.SliceOfN(size, genPoint())
}

// genRectangle generates an axis-aligned CCW rectangle.
func genRectangle() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-50, 50),
		gen.Float64Range(-50, 50),
		gen.Float64Range(0.5, 20),
		gen.Float64Range(0.5, 20),
	).Map(func(vals []interface{}) []Point {
		x, y := vals[0].(float64), vals[1].(float64)
		w, h := vals[2].(float64), vals[3].(float64)
		return []Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	})
}

func TestSignedArea_ReverseNegates(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("reversing a ring negates its signed area", prop.ForAll(
		func(ring []Point) bool {
			rev := append([]Point(nil), ring...)
			Reverse(rev)
			a, b := SignedArea(ring), SignedArea(rev)
			return math.Abs(a+b) <= 1e-6*math.Max(1, math.Abs(a))
		},
		genPolyline(8),
	))

	properties.TestingRun(t)
}

func TestSignedArea_Rectangle(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rectangle area is width times height", prop.ForAll(
		func(rect []Point) bool {
			w := rect[1].X - rect[0].X
			h := rect[2].Y - rect[1].Y
			return math.Abs(SignedArea(rect)-w*h) < 1e-9
		},
		genRectangle(),
	))

	properties.TestingRun(t)
}

func TestPointInRing_LeftOfLongestEdge(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("point left of a CCW rectangle edge is inside", prop.ForAll(
		func(rect []Point) bool {
			p, ok := InteriorPointLeftOf(rect, 1e-6)
			return ok && PointInRing(p, rect)
		},
		genRectangle(),
	))

	properties.TestingRun(t)
}

func TestSimplifyPolyline_PreservesEndpoints(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("simplification keeps endpoints and never grows", prop.ForAll(
		func(points []Point, epsilon float64) bool {
			simplified := SimplifyPolyline(points, epsilon)
			if len(simplified) > len(points) || len(simplified) < 2 {
				return false
			}
			return Equal(simplified[0], points[0]) && Equal(simplified[len(simplified)-1], points[len(points)-1])
		},
		genPolyline(12),
		gen.Float64Range(0.1, 10.0),
	))

	properties.TestingRun(t)
}
