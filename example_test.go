package contours_test

import (
	"fmt"
	"math"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/MeKo-Tech/contours"
)

func ExampleGenerator_FilledContour() {
	// z = distance from the centre node of a 5x5 grid.
	z := make([][]float64, 5)
	for r := range z {
		z[r] = make([]float64, 5)
		for c := range z[r] {
			z[r][c] = math.Hypot(float64(c-2), float64(r-2))
		}
	}
	gen, err := contours.NewUniform(z, contours.WithFormatter(contours.GeometryFormatter))
	if err != nil {
		panic(err)
	}
	out, err := gen.FilledContour(contours.AtMost(1.5))
	if err != nil {
		panic(err)
	}
	for _, g := range out.([]geom.Geometry) {
		p := g.MustAsPolygon()
		fmt.Printf("holes=%d area=%.2f\n", p.NumInteriorRings(), p.Area())
	}
	// Output:
	// holes=0 area=6.44
}

func ExampleGenerator_Contour() {
	gen, err := contours.NewRectilinear(
		[]float64{0, 1, 2},
		[]float64{0, 10},
		[][]float64{{0, 1, 2}, {0, 1, 2}},
		contours.WithFormatter(contours.MatlabFormatter),
	)
	if err != nil {
		panic(err)
	}
	out, err := gen.Contour(0.5)
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output:
	// [[0.5 2] [0.5 10] [0.5 0]]
}
