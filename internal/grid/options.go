package grid

// Option configures grid construction.
type Option func(*options)

type options struct {
	originX, originY float64
	stepX, stepY     float64
	mask             [][]bool
}

func defaultOptions() options {
	return options{stepX: 1, stepY: 1}
}

// WithOrigin sets the coordinates of node (0, 0) for uniform grids.
func WithOrigin(x, y float64) Option {
	return func(o *options) {
		o.originX, o.originY = x, y
	}
}

// WithStep sets the node spacing along columns (dx) and rows (dy) for
// uniform grids. Negative steps are allowed; zero is not.
func WithStep(dx, dy float64) Option {
	return func(o *options) {
		o.stepX, o.stepY = dx, dy
	}
}

// WithMask marks nodes as missing where mask is true. The mask must have the
// same shape as z.
func WithMask(mask [][]bool) Option {
	return func(o *options) {
		o.mask = mask
	}
}
