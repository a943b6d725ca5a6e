// Package contours computes contour lines and filled contour bands of a
// 2-D scalar field sampled on a structured grid.
//
// A Generator is built once from uniform, rectilinear or curvilinear grid
// data and can then be queried any number of times, concurrently if needed:
//
//	gen, err := contours.NewRectilinear(x, y, z, contours.WithFormatterName("geometry"))
//	if err != nil {
//		return err
//	}
//	lines, err := gen.Contour(0.5)
//	bands, err := gen.FilledContour(contours.Between(0.5, 1))
//
// Tracing uses marching squares with linear interpolation along cell
// edges. Saddle cells are resolved with the mean of the four corners.
// Filled results have counter-clockwise exteriors and clockwise holes, and
// every hole is attached to the smallest exterior that contains it.
//
// Cells with a NaN or masked corner are left out of the trace.
package contours
