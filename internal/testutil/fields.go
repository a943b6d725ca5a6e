package testutil

import (
	"math"
)

// Axis returns lo, lo+step, ... up to and including hi (within rounding).
func Axis(lo, hi, step float64) []float64 {
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Sample evaluates f over the rectilinear grid spanned by x (columns) and y
// (rows).
func Sample(x, y []float64, f func(x, y float64) float64) [][]float64 {
	z := make([][]float64, len(y))
	for r, yv := range y {
		z[r] = make([]float64, len(x))
		for c, xv := range x {
			z[r][c] = f(xv, yv)
		}
	}
	return z
}

// Cone is the distance from the origin; its level sets are circles.
func Cone(x, y float64) float64 {
	return math.Hypot(x, y)
}

// Saddle is x*y, with a saddle point at the origin.
func Saddle(x, y float64) float64 {
	return x * y
}

// TwoPeaks has two Gaussian bumps centred at (-1, 0) and (1, 0).
func TwoPeaks(x, y float64) float64 {
	a := math.Exp(-((x+1)*(x+1) + y*y) / 0.3)
	b := math.Exp(-((x-1)*(x-1) + y*y) / 0.3)
	return a + b
}

// ConeGrid returns the cone sampled on [-1, 1]^2 with spacing 0.01.
func ConeGrid() (x, y []float64, z [][]float64) {
	x = Axis(-1, 1, 0.01)
	y = Axis(-1, 1, 0.01)
	return x, y, Sample(x, y, Cone)
}

// IsolatedPoint returns an n x n field filled with surround except for the
// centre node, which holds centre.
func IsolatedPoint(n int, centre, surround float64) [][]float64 {
	z := make([][]float64, n)
	for r := range z {
		z[r] = make([]float64, n)
		for c := range z[r] {
			z[r][c] = surround
		}
	}
	z[n/2][n/2] = centre
	return z
}

// Constant returns a rows x cols field with every node set to v.
func Constant(rows, cols int, v float64) [][]float64 {
	z := make([][]float64, rows)
	for r := range z {
		z[r] = make([]float64, cols)
		for c := range z[r] {
			z[r][c] = v
		}
	}
	return z
}
