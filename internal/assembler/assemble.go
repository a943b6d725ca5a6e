package assembler

import (
	"math"

	"github.com/peterstace/simplefeatures/rtree"

	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/tracer"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// holeSampleOffset is the index-space offset, relative to the longest hole
// edge, of the sample point used to find a hole's exterior.
const holeSampleOffset = 1e-6

// AssembleLines stitches a line trace into polylines.
func AssembleLines(res *tracer.Result) (*LineSet, error) {
	chains, err := newStitcher(res).chains("assemble_lines", true)
	if err != nil {
		return nil, err
	}
	set := &LineSet{Level: res.Lower, Lines: make([]Line, 0, len(chains))}
	for _, c := range chains {
		pts := make([]utils.Point, len(c.keys))
		for i, k := range c.keys {
			pts[i] = res.Position(k)
		}
		set.Lines = append(set.Lines, Line{
			Points: utils.DedupeConsecutive(pts, c.closed),
			Closed: c.closed,
		})
	}
	return set, nil
}

type loop struct {
	index    []utils.Point // index space, for topology
	physical Ring
	area     float64 // index-space signed area
}

// AssemblePolygons stitches a band trace into rings, classifies them and
// attaches every hole to the smallest exterior containing it.
func AssemblePolygons(res *tracer.Result, opts Options) (*PolygonSet, error) {
	const op = "assemble_polygons"
	chains, err := newStitcher(res).chains(op, false)
	if err != nil {
		return nil, err
	}

	var exteriors, holes []loop
	for _, c := range chains {
		l := loop{
			index:    make([]utils.Point, len(c.keys)),
			physical: make(Ring, len(c.keys)),
		}
		for i, k := range c.keys {
			l.index[i] = res.Index(k)
			l.physical[i] = res.Position(k)
		}
		l.physical = utils.DedupeConsecutive(l.physical, true)
		l.area = utils.SignedArea(l.index)
		if l.area < 0 {
			holes = append(holes, l)
		} else {
			exteriors = append(exteriors, l)
		}
	}

	set := &PolygonSet{Lower: res.Lower, Upper: res.Upper, Polygons: make([]Polygon, len(exteriors))}
	for i, ext := range exteriors {
		set.Polygons[i].Exterior = orient(ext.physical, true)
	}
	if len(holes) == 0 {
		return set, nil
	}

	tree := bulkLoad(exteriors)

	for h, hole := range holes {
		parent := -1
		inside, ok := utils.InteriorPointLeftOf(hole.index, holeSampleOffset)
		if ok {
			parent, err = smallestContaining(tree, exteriors, inside)
			if err != nil {
				return nil, common.NewError(common.ErrAssemblyInconsistency, op, "searching exteriors: %v", err)
			}
		}
		if parent < 0 {
			if opts.DropUnmatchedHoles {
				opts.logger().Warn("dropping hole without exterior",
					"hole", h, "vertices", len(hole.physical),
					"lower", res.Lower, "upper", res.Upper)
				set.DroppedHoles++
				continue
			}
			return nil, common.NewError(common.ErrAssemblyInconsistency, op,
				"hole %d with %d vertices has no enclosing exterior", h, len(hole.physical))
		}
		set.Polygons[parent].Holes = append(set.Polygons[parent].Holes, orient(hole.physical, false))
	}
	return set, nil
}

func bulkLoad(exteriors []loop) *rtree.RTree {
	items := make([]rtree.BulkItem, len(exteriors))
	for i, ext := range exteriors {
		b := utils.Bounds(ext.index)
		items[i] = rtree.BulkItem{Box: toBox(b.Lo(), b.Hi()), RecordID: i}
	}
	return rtree.BulkLoad(items)
}

func smallestContaining(tree *rtree.RTree, exteriors []loop, p utils.Point) (int, error) {
	best, bestArea := -1, math.Inf(1)
	err := tree.RangeSearch(toBox(p, p), func(id int) error {
		ext := exteriors[id]
		smaller := ext.area < bestArea || (ext.area == bestArea && id < best)
		if smaller && utils.PointInRing(p, ext.index) {
			best, bestArea = id, ext.area
		}
		return nil
	})
	return best, err
}

func toBox(lo, hi utils.Point) rtree.Box {
	return rtree.Box{MinX: lo.X, MinY: lo.Y, MaxX: hi.X, MaxY: hi.Y}
}

// orient returns ring with counter-clockwise winding when ccw is set and
// clockwise otherwise, judged in physical coordinates. Zero-area rings are
// left as they are.
func orient(ring Ring, ccw bool) Ring {
	a := utils.SignedArea(ring)
	if (ccw && a < 0) || (!ccw && a > 0) {
		utils.Reverse(ring)
	}
	return ring
}
