package tracer

import (
	"math"

	"github.com/MeKo-Tech/contours/internal/grid"
	"github.com/MeKo-Tech/contours/internal/mempool"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Mode selects which boundary pieces the tracer emits.
type Mode uint8

const (
	// Lines emits only iso-line chords.
	Lines Mode = iota
	// Filled also emits the in-band stretches of cell edges that no other
	// traced cell shares, so every band region closes.
	Filled
)

// Segment is an oriented boundary piece with the in-band region on its left.
type Segment struct {
	From, To     PointKey
	CellI, CellJ int32
}

// Stats summarizes one trace.
type Stats struct {
	Cells        int
	SkippedCells int
	SaddleCells  int
}

// Result is the unordered segment soup of one trace plus the means to turn
// its keys into coordinates.
type Result struct {
	Mode         Mode
	Lower, Upper float64
	Segments     []Segment
	Stats        Stats
	rv           resolver
}

// Index returns the index-space coordinates of k.
func (r *Result) Index(k PointKey) utils.Point { return r.rv.index(k) }

// Position returns the physical coordinates of k.
func (r *Result) Position(k PointKey) utils.Point { return r.rv.position(k) }

// TraceLine traces the iso-line at level.
func TraceLine(g *grid.Grid, level float64) *Result {
	return trace(g, Lines, level, math.MaxFloat64)
}

// TraceBand traces the boundary of lower <= z <= upper. Callers pass
// -math.MaxFloat64 or math.MaxFloat64 for an open side.
func TraceBand(g *grid.Grid, lower, upper float64) *Result {
	return trace(g, Filled, lower, upper)
}

type crossing struct {
	level Threshold
	entry bool
}

// crossingTable lists the threshold crossings met when walking an edge from
// a corner of class a to a corner of class b, in walking order.
var crossingTable = [3][3][]crossing{
	0: {
		1: {{Lower, true}},
		2: {{Lower, true}, {Upper, false}},
	},
	1: {
		0: {{Lower, false}},
		2: {{Upper, false}},
	},
	2: {
		0: {{Upper, true}, {Lower, false}},
		1: {{Upper, true}},
	},
}

type event struct {
	key      PointKey
	crossing bool
	entry    bool
}

func classify(z, lower, upper float64) uint8 {
	switch {
	case z < lower:
		return 0
	case z > upper:
		return 2
	default:
		return 1
	}
}

// edgeKey returns the crossing key for side k of cell (i, j). Sides run
// counter-clockwise from the bottom edge.
func edgeKey(side, i, j int, t Threshold) PointKey {
	switch side {
	case 0:
		return PointKey{Kind: HEdgeKey, Level: t, I: int32(i), J: int32(j)}
	case 1:
		return PointKey{Kind: VEdgeKey, Level: t, I: int32(i + 1), J: int32(j)}
	case 2:
		return PointKey{Kind: HEdgeKey, Level: t, I: int32(i), J: int32(j + 1)}
	default:
		return PointKey{Kind: VEdgeKey, Level: t, I: int32(i), J: int32(j)}
	}
}

var (
	cornerOffsets   = [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	neighborOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
)

func trace(g *grid.Grid, mode Mode, lower, upper float64) *Result {
	rows, cols := g.Rows(), g.Cols()
	res := &Result{
		Mode:  mode,
		Lower: lower,
		Upper: upper,
		rv:    resolver{g: g, lower: lower, upper: upper},
	}

	classes := mempool.GetUint8(rows * cols)
	defer mempool.PutUint8(classes)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			classes[r*cols+c] = classify(g.Z(r, c), lower, upper)
		}
	}

	cellCols := cols - 1
	cellOK := mempool.GetBool((rows - 1) * cellCols)
	defer mempool.PutBool(cellOK)
	for j := 0; j < rows-1; j++ {
		for i := 0; i < cellCols; i++ {
			cellOK[j*cellCols+i] = g.CellValid(i, j)
		}
	}
	traced := func(i, j int) bool {
		if i < 0 || j < 0 || i >= cellCols || j >= rows-1 {
			return false
		}
		return cellOK[j*cellCols+i]
	}

	events := make([]event, 0, 12)
	for j := 0; j < rows-1; j++ {
		for i := 0; i < cellCols; i++ {
			res.Stats.Cells++
			if !cellOK[j*cellCols+i] {
				res.Stats.SkippedCells++
				continue
			}
			var cs [4]uint8
			var sum float64
			for k, off := range cornerOffsets {
				c, r := i+off[0], j+off[1]
				cs[k] = classes[r*cols+c]
				sum += g.Z(r, c)
			}
			if cs[0] == cs[1] && cs[1] == cs[2] && cs[2] == cs[3] && (cs[0] != 1 || mode == Lines) {
				continue
			}

			events = events[:0]
			for k := 0; k < 4; k++ {
				if cs[k] == 1 {
					off := cornerOffsets[k]
					events = append(events, event{key: nodeKey(i+off[0], j+off[1])})
				}
				for _, x := range crossingTable[cs[k]][cs[(k+1)%4]] {
					events = append(events, event{key: edgeKey(k, i, j, x.level), crossing: true, entry: x.entry})
				}
			}

			mean := sum / 4
			if res.emitChords(events, mean, int32(i), int32(j)) {
				res.Stats.SaddleCells++
			}

			if mode != Filled {
				continue
			}
			for k := 0; k < 4; k++ {
				n := neighborOffsets[k]
				if traced(i+n[0], j+n[1]) {
					continue
				}
				res.emitExposedEdge(k, i, j, cs[k], cs[(k+1)%4])
			}
		}
	}
	return res
}

// emitChords pairs each exit crossing with an entry crossing of the same
// threshold and reports whether the cell was a saddle for any threshold.
func (r *Result) emitChords(events []event, mean float64, i, j int32) bool {
	n := len(events)
	saddle := false
	for _, t := range [2]Threshold{Lower, Upper} {
		var exits []int
		for idx, ev := range events {
			if ev.crossing && !ev.entry && ev.key.Level == t {
				exits = append(exits, idx)
			}
		}
		switch len(exits) {
		case 0:
			continue
		case 2:
			saddle = true
			if r.joinOutside(t, mean) {
				a, b := exits[0], exits[1]
				r.add(events[a].key, events[(b+1)%n].key, i, j)
				r.add(events[b].key, events[(a+1)%n].key, i, j)
				continue
			}
		}
		for _, idx := range exits {
			r.add(events[idx].key, events[(idx+1)%n].key, i, j)
		}
	}
	return saddle
}

// joinOutside decides a saddle for threshold t: true when the corners beyond
// t connect through the cell centre. A mean equal to the threshold counts as
// above it, the same as a node value for a line contour, so bands sharing a
// bound never both claim the centre.
func (r *Result) joinOutside(t Threshold, mean float64) bool {
	if t == Upper {
		return mean >= r.Upper
	}
	return mean < r.Lower
}

// emitExposedEdge emits the in-band stretches of side k of cell (i, j),
// walking from corner k to corner k+1.
func (r *Result) emitExposedEdge(k, i, j int, ca, cb uint8) {
	a := cornerOffsets[k]
	b := cornerOffsets[(k+1)%4]
	inBand := ca == 1
	start := nodeKey(i+a[0], j+a[1])
	for _, x := range crossingTable[ca][cb] {
		key := edgeKey(k, i, j, x.level)
		if x.entry {
			start = key
			inBand = true
			continue
		}
		r.add(start, key, int32(i), int32(j))
		inBand = false
	}
	if inBand {
		r.add(start, nodeKey(i+b[0], j+b[1]), int32(i), int32(j))
	}
}

func (r *Result) add(from, to PointKey, i, j int32) {
	r.Segments = append(r.Segments, Segment{From: from, To: to, CellI: i, CellJ: j})
}
