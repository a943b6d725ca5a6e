package tracer

import (
	"fmt"

	"github.com/MeKo-Tech/contours/internal/grid"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// KeyKind tells what a PointKey refers to.
type KeyKind uint8

const (
	// NodeKey is a grid node at column I, row J.
	NodeKey KeyKind = iota
	// HEdgeKey is a crossing on the edge from node (I, J) to (I+1, J).
	HEdgeKey
	// VEdgeKey is a crossing on the edge from node (I, J) to (I, J+1).
	VEdgeKey
)

// Threshold selects the lower or upper bound of a band.
type Threshold uint8

const (
	Lower Threshold = iota
	Upper
)

// PointKey identifies a segment endpoint by grid topology.
type PointKey struct {
	Kind  KeyKind
	Level Threshold
	I, J  int32
}

func (k PointKey) String() string {
	switch k.Kind {
	case NodeKey:
		return fmt.Sprintf("node(%d,%d)", k.I, k.J)
	case HEdgeKey:
		return fmt.Sprintf("h(%d,%d)@%d", k.I, k.J, k.Level)
	default:
		return fmt.Sprintf("v(%d,%d)@%d", k.I, k.J, k.Level)
	}
}

func nodeKey(col, row int) PointKey {
	return PointKey{Kind: NodeKey, I: int32(col), J: int32(row)}
}

// edgeNodes returns the canonical (col, row) pair of nodes of an edge key,
// lower index first.
func edgeNodes(k PointKey) (c0, r0, c1, r1 int) {
	c0, r0 = int(k.I), int(k.J)
	if k.Kind == HEdgeKey {
		return c0, r0, c0 + 1, r0
	}
	return c0, r0, c0, r0 + 1
}

// resolver maps keys to coordinates for one traced result.
type resolver struct {
	g            *grid.Grid
	lower, upper float64
}

func (rv resolver) level(t Threshold) float64 {
	if t == Upper {
		return rv.upper
	}
	return rv.lower
}

// fraction returns the interpolation parameter of an edge crossing,
// measured from the lower-index node.
func (rv resolver) fraction(k PointKey) float64 {
	c0, r0, c1, r1 := edgeNodes(k)
	za, zb := rv.g.Z(r0, c0), rv.g.Z(r1, c1)
	return (rv.level(k.Level) - za) / (zb - za)
}

func (rv resolver) index(k PointKey) utils.Point {
	if k.Kind == NodeKey {
		return utils.Point{X: float64(k.I), Y: float64(k.J)}
	}
	t := rv.fraction(k)
	if k.Kind == HEdgeKey {
		return utils.Point{X: float64(k.I) + t, Y: float64(k.J)}
	}
	return utils.Point{X: float64(k.I), Y: float64(k.J) + t}
}

func (rv resolver) position(k PointKey) utils.Point {
	if k.Kind == NodeKey {
		return rv.g.Node(int(k.J), int(k.I))
	}
	c0, r0, c1, r1 := edgeNodes(k)
	a, b := rv.g.Node(r0, c0), rv.g.Node(r1, c1)
	t := rv.fraction(k)
	return utils.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}
