package contours

import (
	"fmt"
	"math"
)

// Band selects the value range of a filled contour. An absent bound extends
// the band to the field's minimum or maximum.
type Band struct {
	min, max       float64
	hasMin, hasMax bool
}

// Between returns the band min <= z <= max.
func Between(min, max float64) Band {
	return Band{min: min, max: max, hasMin: true, hasMax: true}
}

// AtLeast returns the band z >= min.
func AtLeast(min float64) Band {
	return Band{min: min, hasMin: true}
}

// AtMost returns the band z <= max.
func AtMost(max float64) Band {
	return Band{max: max, hasMax: true}
}

// Unbounded returns the band covering every valid value.
func Unbounded() Band {
	return Band{}
}

// Min returns the lower bound and whether it was given.
func (b Band) Min() (float64, bool) { return b.min, b.hasMin }

// Max returns the upper bound and whether it was given.
func (b Band) Max() (float64, bool) { return b.max, b.hasMax }

// bounds returns the thresholds handed to the tracer.
func (b Band) bounds() (lo, hi float64) {
	lo, hi = -math.MaxFloat64, math.MaxFloat64
	if b.hasMin {
		lo = b.min
	}
	if b.hasMax {
		hi = b.max
	}
	return lo, hi
}

func (b Band) validate() error {
	if b.hasMin && !isFinite(b.min) {
		return fmt.Errorf("min %g is not finite", b.min)
	}
	if b.hasMax && !isFinite(b.max) {
		return fmt.Errorf("max %g is not finite", b.max)
	}
	if lo, hi := b.bounds(); lo >= hi {
		return fmt.Errorf("min %g must be less than max %g", lo, hi)
	}
	return nil
}

func (b Band) String() string {
	lo, hi := "-inf", "+inf"
	if b.hasMin {
		lo = fmt.Sprintf("%g", b.min)
	}
	if b.hasMax {
		hi = fmt.Sprintf("%g", b.max)
	}
	return "[" + lo + ", " + hi + "]"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
