// Package grid normalizes uniform, rectilinear and curvilinear coordinate
// descriptions into one immutable structured grid.
//
// Nodes are addressed by (row, col). Cell (i, j) is the quad whose lower
// corner is node (row j, col i), so i runs along columns and j along rows.
package grid

import (
	"math"

	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Grid holds X, Y and Z in row-major order. It is never mutated after
// construction and is safe for concurrent readers.
type Grid struct {
	rows, cols int
	x, y, z    []float64
	missing    []bool
}

// FromUniform builds a grid with implicit, evenly spaced coordinates.
// X[r][c] = x0 + c*dx and Y[r][c] = y0 + r*dy.
func FromUniform(z [][]float64, opts ...Option) (*Grid, error) {
	const op = "from_uniform"
	o := applyOptions(opts)
	rows, cols, err := shapeOf(op, "z", z)
	if err != nil {
		return nil, err
	}
	if o.stepX == 0 || o.stepY == 0 || !finite(o.stepX) || !finite(o.stepY) {
		return nil, common.NewError(common.ErrInvalidGrid, op, "step (%g, %g) must be finite and non-zero", o.stepX, o.stepY)
	}
	if !finite(o.originX) || !finite(o.originY) {
		return nil, common.NewError(common.ErrInvalidGrid, op, "origin (%g, %g) must be finite", o.originX, o.originY)
	}
	g := newGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			k := r*cols + c
			g.x[k] = o.originX + float64(c)*o.stepX
			g.y[k] = o.originY + float64(r)*o.stepY
		}
	}
	return g.finish(op, z, o.mask)
}

// FromRectilinear builds a grid from per-axis coordinates. len(x) must equal
// the number of columns of z and len(y) the number of rows. Both axes must be
// strictly monotonic.
func FromRectilinear(x, y []float64, z [][]float64, opts ...Option) (*Grid, error) {
	const op = "from_rectilinear"
	o := applyOptions(opts)
	rows, cols, err := shapeOf(op, "z", z)
	if err != nil {
		return nil, err
	}
	if len(x) != cols || len(y) != rows {
		return nil, common.NewError(common.ErrShapeMismatch, op,
			"axis lengths (x=%d, y=%d) do not match z shape %dx%d", len(x), len(y), rows, cols)
	}
	if err := checkAxis(op, "x", x); err != nil {
		return nil, err
	}
	if err := checkAxis(op, "y", y); err != nil {
		return nil, err
	}
	g := newGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			k := r*cols + c
			g.x[k] = x[c]
			g.y[k] = y[r]
		}
	}
	return g.finish(op, z, o.mask)
}

// FromCurvilinear builds a grid from full 2-D coordinate arrays.
func FromCurvilinear(x, y, z [][]float64, opts ...Option) (*Grid, error) {
	const op = "from_curvilinear"
	o := applyOptions(opts)
	rows, cols, err := shapeOf(op, "z", z)
	if err != nil {
		return nil, err
	}
	for _, named := range []struct {
		name string
		arr  [][]float64
	}{{"x", x}, {"y", y}} {
		r, c, err := shapeOf(op, named.name, named.arr)
		if err != nil {
			return nil, err
		}
		if r != rows || c != cols {
			return nil, common.NewError(common.ErrShapeMismatch, op,
				"%s shape %dx%d does not match z shape %dx%d", named.name, r, c, rows, cols)
		}
	}
	g := newGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			k := r*cols + c
			if !finite(x[r][c]) || !finite(y[r][c]) {
				return nil, common.NewError(common.ErrInvalidGrid, op, "non-finite coordinate at (%d, %d)", r, c)
			}
			g.x[k] = x[r][c]
			g.y[k] = y[r][c]
		}
	}
	return g.finish(op, z, o.mask)
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func newGrid(rows, cols int) *Grid {
	n := rows * cols
	return &Grid{
		rows: rows,
		cols: cols,
		x:    make([]float64, n),
		y:    make([]float64, n),
		z:    make([]float64, n),
	}
}

// finish copies z and the mask into g.
func (g *Grid) finish(op string, z [][]float64, mask [][]bool) (*Grid, error) {
	for r, row := range z {
		copy(g.z[r*g.cols:], row)
	}
	if mask == nil {
		return g, nil
	}
	if len(mask) != g.rows {
		return nil, common.NewError(common.ErrShapeMismatch, op, "mask has %d rows, z has %d", len(mask), g.rows)
	}
	g.missing = make([]bool, g.rows*g.cols)
	for r, row := range mask {
		if len(row) != g.cols {
			return nil, common.NewError(common.ErrShapeMismatch, op, "mask row %d has %d columns, z has %d", r, len(row), g.cols)
		}
		copy(g.missing[r*g.cols:], row)
	}
	return g, nil
}

// shapeOf validates that arr is a rectangular array of at least 2x2.
func shapeOf(op, name string, arr [][]float64) (int, int, error) {
	rows := len(arr)
	if rows == 0 {
		return 0, 0, common.NewError(common.ErrInvalidGrid, op, "%s is empty", name)
	}
	cols := len(arr[0])
	for r, row := range arr {
		if len(row) != cols {
			return 0, 0, common.NewError(common.ErrShapeMismatch, op,
				"%s row %d has %d columns, expected %d", name, r, len(row), cols)
		}
	}
	if rows < 2 || cols < 2 {
		return 0, 0, common.NewError(common.ErrInvalidGrid, op, "%s is %dx%d, need at least 2x2", name, rows, cols)
	}
	return rows, cols, nil
}

func checkAxis(op, name string, axis []float64) error {
	for i, v := range axis {
		if !finite(v) {
			return common.NewError(common.ErrInvalidGrid, op, "%s[%d] is not finite", name, i)
		}
	}
	inc := axis[1] > axis[0]
	for i := 1; i < len(axis); i++ {
		if (inc && axis[i] <= axis[i-1]) || (!inc && axis[i] >= axis[i-1]) {
			return common.NewError(common.ErrInvalidGrid, op, "%s is not strictly monotonic at index %d", name, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rows returns the number of node rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of node columns.
func (g *Grid) Cols() int { return g.cols }

// Cells returns the number of cells, (rows-1)*(cols-1).
func (g *Grid) Cells() int { return (g.rows - 1) * (g.cols - 1) }

// X returns the x coordinate of node (r, c).
func (g *Grid) X(r, c int) float64 { return g.x[r*g.cols+c] }

// Y returns the y coordinate of node (r, c).
func (g *Grid) Y(r, c int) float64 { return g.y[r*g.cols+c] }

// Z returns the field value at node (r, c), NaN included.
func (g *Grid) Z(r, c int) float64 { return g.z[r*g.cols+c] }

// Node returns the physical position of node (r, c).
func (g *Grid) Node(r, c int) utils.Point {
	k := r*g.cols + c
	return utils.Point{X: g.x[k], Y: g.y[k]}
}

// Valid reports whether node (r, c) carries a finite, unmasked value.
func (g *Grid) Valid(r, c int) bool {
	k := r*g.cols + c
	if g.missing != nil && g.missing[k] {
		return false
	}
	return finite(g.z[k])
}

// CellValid reports whether all four corners of cell (i, j) are valid.
// Out-of-range cells are invalid.
func (g *Grid) CellValid(i, j int) bool {
	if i < 0 || j < 0 || i >= g.cols-1 || j >= g.rows-1 {
		return false
	}
	return g.Valid(j, i) && g.Valid(j, i+1) && g.Valid(j+1, i) && g.Valid(j+1, i+1)
}

// Range returns the minimum and maximum over valid nodes. ok is false when
// no node is valid.
func (g *Grid) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if !g.Valid(r, c) {
				continue
			}
			v := g.Z(r, c)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

// ZRows returns a copy of Z as rows, with missing nodes set to NaN.
func (g *Grid) ZRows() [][]float64 {
	out := make([][]float64, g.rows)
	for r := range out {
		out[r] = make([]float64, g.cols)
		for c := range out[r] {
			if g.Valid(r, c) {
				out[r][c] = g.Z(r, c)
			} else {
				out[r][c] = math.NaN()
			}
		}
	}
	return out
}
