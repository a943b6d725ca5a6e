package utils

import "math"

// SignedArea returns the shoelace area of a ring. Counter-clockwise rings are
// positive. A repeated closing vertex does not change the result.
func SignedArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	// Shift by the first vertex to keep the products small.
	o := ring[0]
	sum := 0.0
	for i := 1; i < n-1; i++ {
		a := ring[i].Sub(o)
		b := ring[i+1].Sub(o)
		sum += a.Cross(b)
	}
	return sum / 2
}

// Perimeter returns the length of the ring including the closing edge.
func Perimeter(ring []Point) float64 {
	if len(ring) < 2 {
		return 0
	}
	return PolylineLength(ring) + ring[len(ring)-1].Sub(ring[0]).Norm()
}

// PolylineLength returns the summed edge length of an open polyline.
func PolylineLength(pts []Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Sub(pts[i-1]).Norm()
	}
	return total
}

// PointInRing tests p against the ring with the even-odd rule. Points
// exactly on an edge may report either result.
func PointInRing(p Point, ring []Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// InteriorPointLeftOf returns a point just to the left of the midpoint of
// the longest edge of the ring, offset by eps times that edge's length.
// ok is false when every edge has zero length.
func InteriorPointLeftOf(ring []Point, eps float64) (Point, bool) {
	n := len(ring)
	best, bestLen := -1, 0.0
	for i := 0; i < n; i++ {
		l := ring[(i+1)%n].Sub(ring[i]).Norm()
		if l > bestLen {
			best, bestLen = i, l
		}
	}
	if best < 0 {
		return Point{}, false
	}
	a, b := ring[best], ring[(best+1)%n]
	mid := a.Add(b).Mul(0.5)
	return mid.Add(b.Sub(a).Ortho().Mul(eps)), true
}

// SimplifyPolyline reduces the number of points in an open polyline using
// the Douglas–Peucker algorithm with tolerance epsilon. Endpoints are kept.
func SimplifyPolyline(pts []Point, epsilon float64) []Point {
	if len(pts) <= 2 || epsilon <= 0 {
		return append([]Point(nil), pts...)
	}
	keep := make([]bool, len(pts))
	keep[0] = true
	keep[len(pts)-1] = true
	dpSimplify(pts, 0, len(pts)-1, epsilon, keep)
	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// SimplifyRing simplifies a closed ring (no repeated closing vertex). The
// ring is split at the vertex farthest from the first so both halves are
// simplified as open polylines. Rings that would collapse below three
// vertices are returned unchanged.
func SimplifyRing(ring []Point, epsilon float64) []Point {
	if len(ring) <= 3 || epsilon <= 0 {
		return append([]Point(nil), ring...)
	}
	far, farDist := 0, -1.0
	for i, p := range ring {
		if d := p.Sub(ring[0]).Norm(); d > farDist {
			far, farDist = i, d
		}
	}
	closed := append(append([]Point(nil), ring...), ring[0])
	first := SimplifyPolyline(closed[:far+1], epsilon)
	second := SimplifyPolyline(closed[far:], epsilon)
	out := append(first, second[1:len(second)-1]...)
	if len(out) < 3 {
		return append([]Point(nil), ring...)
	}
	return out
}

func dpSimplify(pts []Point, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a := pts[start]
	b := pts[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

func perpendicularDistance(p, a, b Point) float64 {
	v := b.Sub(a)
	if v.X == 0 && v.Y == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(p.Sub(a).Cross(v)) / v.Norm()
}
