// Package tracer walks every cell of a grid and emits oriented boundary
// segments for a line contour or a filled band.
//
// Corners are classified against the thresholds: below the lower bound (0),
// inside the band (1) or above the upper bound (2). A line contour at level L
// is traced as the band [L, +MaxFloat64], so its segments are the iso-line
// with z >= L on their left. Every segment keeps the in-band region on its
// left in index space (x = column, y = row).
//
// Segment endpoints are identified by PointKey rather than by coordinates:
// a key names either a grid node or the crossing of one threshold on one
// grid edge. Adjacent cells therefore agree on shared endpoints exactly.
//
// Saddle cells are resolved with the mean of the four corners. For the
// upper threshold a mean at or above it joins the above-corners through the
// cell centre; for the lower threshold a mean below it joins the
// below-corners. In every other case the in-band corners are joined. A mean
// equal to a threshold therefore always belongs to the band above it, which
// keeps adjacent bands from overlapping and matches the line rule z >= L.
package tracer
