package tracer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours/internal/grid"
	"github.com/MeKo-Tech/contours/internal/testutil"
	"github.com/MeKo-Tech/contours/internal/utils"
)

func mustUniform(t *testing.T, z [][]float64) *grid.Grid {
	t.Helper()
	g, err := grid.FromUniform(z)
	require.NoError(t, err)
	return g
}

// balance returns, per key, outgoing minus incoming segment count.
func balance(segs []Segment) map[PointKey]int {
	b := map[PointKey]int{}
	for _, s := range segs {
		b[s.From]++
		b[s.To]--
	}
	return b
}

func TestTraceLine_SingleCorner(t *testing.T) {
	g := mustUniform(t, [][]float64{{0, 0}, {0, 1}})
	res := TraceLine(g, 0.5)

	require.Len(t, res.Segments, 1)
	seg := res.Segments[0]
	assert.Equal(t, PointKey{Kind: HEdgeKey, Level: Lower, I: 0, J: 1}, seg.From)
	assert.Equal(t, PointKey{Kind: VEdgeKey, Level: Lower, I: 1, J: 0}, seg.To)
	assert.Equal(t, utils.Point{X: 0.5, Y: 1}, res.Position(seg.From))
	assert.Equal(t, utils.Point{X: 1, Y: 0.5}, res.Position(seg.To))

	// The high corner lies on the left.
	d := res.Index(seg.To).Sub(res.Index(seg.From))
	toCorner := utils.Point{X: 1, Y: 1}.Sub(res.Index(seg.From))
	assert.Greater(t, d.Cross(toCorner), 0.0)
}

func TestTraceLine_Interpolation(t *testing.T) {
	g, err := grid.FromRectilinear([]float64{10, 20}, []float64{0, 4}, [][]float64{{0, 4}, {0, 4}})
	require.NoError(t, err)
	res := TraceLine(g, 1)
	require.Len(t, res.Segments, 1)
	p := res.Position(res.Segments[0].From)
	q := res.Position(res.Segments[0].To)
	assert.InDelta(t, 12.5, p.X, 1e-12)
	assert.InDelta(t, 12.5, q.X, 1e-12)
	assert.ElementsMatch(t, []float64{0, 4}, []float64{p.Y, q.Y})
}

func TestTraceLine_Saddle(t *testing.T) {
	// Corners (0,0) and (1,1) are 1, the other diagonal is 0; the mean is 0.5.
	z := [][]float64{{1, 0}, {0, 1}}
	tests := []struct {
		name       string
		level      float64
		joinedHigh bool
	}{
		{name: "mean above level joins high corners", level: 0.4, joinedHigh: true},
		{name: "mean below level separates high corners", level: 0.6, joinedHigh: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := TraceLine(mustUniform(t, z), tt.level)
			require.Len(t, res.Segments, 2)
			assert.Equal(t, 1, res.Stats.SaddleCells)

			// Joined high corners put the cell centre on the left of both segments.
			centre := utils.Point{X: 0.5, Y: 0.5}
			for _, s := range res.Segments {
				a, b := res.Index(s.From), res.Index(s.To)
				left := b.Sub(a).Cross(centre.Sub(a)) > 0
				assert.Equal(t, tt.joinedHigh, left, "centre side of %v->%v", a, b)
			}
		})
	}
}

func TestTraceLine_SharedEdgesBalance(t *testing.T) {
	x := testutil.Axis(-1, 1, 0.1)
	g, err := grid.FromRectilinear(x, x, testutil.Sample(x, x, testutil.Cone))
	require.NoError(t, err)

	res := TraceLine(g, 0.5)
	require.NotEmpty(t, res.Segments)
	for k, v := range balance(res.Segments) {
		assert.Zero(t, v, "unbalanced key %s", k)
	}
}

func TestTraceLine_OutOfRangeAndFlat(t *testing.T) {
	g := mustUniform(t, testutil.Constant(4, 4, 2))
	assert.Empty(t, TraceLine(g, 2).Segments)
	assert.Empty(t, TraceLine(g, 5).Segments)
	assert.Empty(t, TraceBand(g, 3, 4).Segments)
}

func TestTraceLine_SkipsMissingCells(t *testing.T) {
	z := testutil.Sample(testutil.Axis(0, 4, 1), testutil.Axis(0, 4, 1), func(x, _ float64) float64 { return x })
	z[2][2] = math.NaN()
	g := mustUniform(t, z)

	res := TraceLine(g, 1.5)
	assert.Equal(t, 4, res.Stats.SkippedCells)
	assert.Equal(t, 16, res.Stats.Cells)
	for _, s := range res.Segments {
		touches := (s.CellI == 1 || s.CellI == 2) && (s.CellJ == 1 || s.CellJ == 2)
		assert.False(t, touches, "segment from excluded cell (%d,%d)", s.CellI, s.CellJ)
	}
}

func TestTraceBand_ClosedBoundary(t *testing.T) {
	x := testutil.Axis(-1, 1, 0.1)
	g, err := grid.FromRectilinear(x, x, testutil.Sample(x, x, testutil.Cone))
	require.NoError(t, err)

	for _, band := range [][2]float64{{-math.MaxFloat64, 1}, {0.5, 1}, {0.2, math.MaxFloat64}, {-math.MaxFloat64, math.MaxFloat64}} {
		res := TraceBand(g, band[0], band[1])
		require.NotEmpty(t, res.Segments, "band %v", band)
		for k, v := range balance(res.Segments) {
			assert.Zero(t, v, "band %v: unbalanced key %s", band, k)
		}
	}
}

func TestTraceBand_FullyInside(t *testing.T) {
	g := mustUniform(t, testutil.Constant(3, 3, 1))
	res := TraceBand(g, 0, 2)
	// Only the outer grid boundary: 8 unit edges.
	require.Len(t, res.Segments, 8)
	for _, s := range res.Segments {
		assert.Equal(t, NodeKey, s.From.Kind)
		assert.Equal(t, NodeKey, s.To.Kind)
	}
}

func TestTraceBand_SaddleBothThresholds(t *testing.T) {
	// Alternating below/above corners cross both thresholds on every edge.
	z := [][]float64{{0, 3}, {3, 0}}
	for _, tt := range []struct {
		name  string
		lower float64
		upper float64
	}{
		{name: "centre in band", lower: 1, upper: 2},
		{name: "centre above band", lower: 0.5, upper: 1},
		{name: "centre below band", lower: 2, upper: 2.5},
	} {
		t.Run(tt.name, func(t *testing.T) {
			res := TraceBand(mustUniform(t, z), tt.lower, tt.upper)
			assert.Equal(t, 1, res.Stats.SaddleCells)
			for k, v := range balance(res.Segments) {
				assert.Zero(t, v, "unbalanced key %s", k)
			}
		})
	}
}

func TestPointKeyString(t *testing.T) {
	assert.Equal(t, "node(1,2)", nodeKey(1, 2).String())
	assert.Equal(t, "h(0,3)@1", PointKey{Kind: HEdgeKey, Level: Upper, J: 3}.String())
	assert.Equal(t, "v(2,0)@0", PointKey{Kind: VEdgeKey, I: 2}.String())
}
