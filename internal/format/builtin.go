package format

import (
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/utils"
)

// Raw is the untouched formatter input.
type Raw struct {
	Level    Level
	Vertices [][]utils.Point
	Codes    [][]PathCode
}

// Null returns its input as a Raw value.
func Null(level Level, vertices [][]utils.Point, codes [][]PathCode) (any, error) {
	return Raw{Level: level, Vertices: vertices, Codes: codes}, nil
}

// Arrays holds one vertex array per line or ring. Codes is nil for line
// contours.
type Arrays struct {
	Vertices [][]utils.Point
	Codes    [][]PathCode
}

// Numpy returns plain coordinate arrays. Filled paths are split into one
// array per ring (MoveTo through ClosePoly), exteriors before their holes.
func Numpy(level Level, vertices [][]utils.Point, codes [][]PathCode) (any, error) {
	const op = "numpy_formatter"
	if err := requireCodes(op, level, vertices, codes); err != nil {
		return nil, err
	}
	if !level.Filled {
		return Arrays{Vertices: vertices}, nil
	}
	out := Arrays{}
	for i, path := range vertices {
		rings, err := SplitRings(path, codes[i])
		if err != nil {
			return nil, err
		}
		offset := 0
		for _, ring := range rings {
			out.Vertices = append(out.Vertices, ring)
			out.Codes = append(out.Codes, codes[i][offset:offset+len(ring)])
			offset += len(ring)
		}
	}
	return out, nil
}

// Packed is a MATLAB contourc-style matrix: each loop is preceded by a
// header row (level, vertex count) followed by its vertices as (x, y) rows.
type Packed [][2]float64

// PackedLoop is one loop recovered from a Packed matrix.
type PackedLoop struct {
	Level  float64
	Points []utils.Point
}

// Matlab packs every line or ring into one matrix. Filled contours use the
// lower band bound as the header level.
func Matlab(level Level, vertices [][]utils.Point, codes [][]PathCode) (any, error) {
	const op = "matlab_formatter"
	if err := requireCodes(op, level, vertices, codes); err != nil {
		return nil, err
	}
	loops := vertices
	if level.Filled {
		loops = nil
		for i, path := range vertices {
			rings, err := SplitRings(path, codes[i])
			if err != nil {
				return nil, err
			}
			loops = append(loops, rings...)
		}
	}
	size := 0
	for _, l := range loops {
		size += len(l) + 1
	}
	out := make(Packed, 0, size)
	for _, l := range loops {
		out = append(out, [2]float64{level.Value(), float64(len(l))})
		for _, p := range l {
			out = append(out, [2]float64{p.X, p.Y})
		}
	}
	return out, nil
}

// ParseMatlab splits a Packed matrix back into its loops.
func ParseMatlab(m Packed) ([]PackedLoop, error) {
	var loops []PackedLoop
	for i := 0; i < len(m); {
		level, count := m[i][0], int(m[i][1])
		if count < 0 || float64(count) != m[i][1] || i+1+count > len(m) {
			return nil, common.NewError(common.ErrShapeMismatch, "parse_matlab",
				"bad header at row %d: count %g with %d rows left", i, m[i][1], len(m)-i-1)
		}
		loop := PackedLoop{Level: level, Points: make([]utils.Point, count)}
		for k := 0; k < count; k++ {
			row := m[i+1+k]
			loop.Points[k] = utils.Point{X: row[0], Y: row[1]}
		}
		loops = append(loops, loop)
		i += 1 + count
	}
	return loops, nil
}
