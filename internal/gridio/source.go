// Package gridio reads scalar fields from files into contour generators
// and writes contour results in the CLI's output formats.
package gridio

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/contours"
)

// Kind names how a Source carries its coordinates.
type Kind string

// Grid kinds.
const (
	Uniform     Kind = "uniform"
	Rectilinear Kind = "rectilinear"
	Curvilinear Kind = "curvilinear"
)

// Source is a decoded field with its coordinates, ready to be turned into
// a Generator.
type Source struct {
	Name string
	Kind Kind
	Z    [][]float64

	// Uniform grids.
	Origin [2]float64
	Step   [2]float64

	// Rectilinear grids.
	XAxis, YAxis []float64

	// Curvilinear grids.
	XGrid, YGrid [][]float64

	Mask [][]bool
}

// Rows returns the number of rows of Z.
func (s *Source) Rows() int { return len(s.Z) }

// Cols returns the number of columns of Z, taken from its first row.
func (s *Source) Cols() int {
	if len(s.Z) == 0 {
		return 0
	}
	return len(s.Z[0])
}

// Cells returns the number of grid cells.
func (s *Source) Cells() int {
	r, c := s.Rows(), s.Cols()
	if r < 2 || c < 2 {
		return 0
	}
	return (r - 1) * (c - 1)
}

// Generator builds a contour generator over the source. opts are applied
// after the source's own coordinate and mask options.
func (s *Source) Generator(opts ...contours.Option) (*contours.Generator, error) {
	var base []contours.Option
	if s.Mask != nil {
		base = append(base, contours.WithMask(s.Mask))
	}
	switch s.Kind {
	case Uniform, "":
		step := s.Step
		if step == ([2]float64{}) {
			step = [2]float64{1, 1}
		}
		base = append(base,
			contours.WithOrigin(s.Origin[0], s.Origin[1]),
			contours.WithStep(step[0], step[1]))
		return contours.NewUniform(s.Z, append(base, opts...)...)
	case Rectilinear:
		return contours.NewRectilinear(s.XAxis, s.YAxis, s.Z, append(base, opts...)...)
	case Curvilinear:
		return contours.NewCurvilinear(s.XGrid, s.YGrid, s.Z, append(base, opts...)...)
	default:
		return nil, fmt.Errorf("unknown grid kind %q", s.Kind)
	}
}

// nan is used for missing cells in every input format.
var nan = math.NaN()
