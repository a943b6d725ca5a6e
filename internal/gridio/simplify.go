package gridio

import (
	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Simplify returns a copy of out with every line and ring reduced by
// Douglas-Peucker at tolerance tol. A non-positive tol returns out as is.
func Simplify(out *Output, tol float64) *Output {
	if tol <= 0 {
		return out
	}
	res := &Output{Source: out.Source}
	for _, set := range out.Lines {
		ls := &contours.LineSet{Level: set.Level, Lines: make([]contours.Line, len(set.Lines))}
		for i, l := range set.Lines {
			var pts []utils.Point
			if l.Closed {
				pts = utils.SimplifyRing(l.Points, tol)
			} else {
				pts = utils.SimplifyPolyline(l.Points, tol)
			}
			ls.Lines[i] = contours.Line{Points: pts, Closed: l.Closed}
		}
		res.Lines = append(res.Lines, ls)
	}
	for _, set := range out.Polygons {
		ps := &contours.PolygonSet{
			Lower:        set.Lower,
			Upper:        set.Upper,
			Polygons:     make([]contours.Polygon, len(set.Polygons)),
			DroppedHoles: set.DroppedHoles,
		}
		for i, p := range set.Polygons {
			np := contours.Polygon{Exterior: utils.SimplifyRing(p.Exterior, tol)}
			for _, h := range p.Holes {
				np.Holes = append(np.Holes, utils.SimplifyRing(h, tol))
			}
			ps.Polygons[i] = np
		}
		res.Polygons = append(res.Polygons, ps)
	}
	return res
}
