package common

import "time"

// Timer measures one stage of a contour run.
type Timer struct {
	start    time.Time
	duration time.Duration
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Milliseconds returns the duration recorded by Stop as fractional
// milliseconds.
func (t *Timer) Milliseconds() float64 {
	return float64(t.duration.Microseconds()) / 1000
}
