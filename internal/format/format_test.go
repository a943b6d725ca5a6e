package format

import (
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours/internal/assembler"
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/utils"
)

func square(lo, hi float64, ccw bool) assembler.Ring {
	r := assembler.Ring{{X: lo, Y: lo}, {X: hi, Y: lo}, {X: hi, Y: hi}, {X: lo, Y: hi}}
	if !ccw {
		utils.Reverse(r)
	}
	return r
}

func samplePolygons() *assembler.PolygonSet {
	return &assembler.PolygonSet{
		Lower: 0.5,
		Upper: 1,
		Polygons: []assembler.Polygon{
			{Exterior: square(0, 10, true), Holes: []assembler.Ring{square(2, 4, false), {{X: 6, Y: 6}}}},
			{Exterior: assembler.Ring{{X: 20, Y: 20}}},
		},
	}
}

func sampleLines() *assembler.LineSet {
	return &assembler.LineSet{
		Level: 2,
		Lines: []assembler.Line{
			{Points: []utils.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
			{Points: []utils.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, Closed: true},
			{Points: []utils.Point{{X: 5, Y: 5}}, Closed: true},
		},
	}
}

func TestPathCodeString(t *testing.T) {
	assert.Equal(t, "MOVETO", MoveTo.String())
	assert.Equal(t, "CLOSEPOLY", ClosePoly.String())
	assert.Equal(t, "PathCode(9)", PathCode(9).String())
	assert.Equal(t, PathCode(79), ClosePoly)
}

func TestEncodeLines(t *testing.T) {
	paths := EncodeLines(sampleLines())
	require.Len(t, paths, 3)
	assert.Len(t, paths[0], 2)
	assert.Len(t, paths[1], 4)
	assert.Equal(t, paths[1][0], paths[1][3])
	assert.Equal(t, []utils.Point{{X: 5, Y: 5}, {X: 5, Y: 5}}, paths[2])
}

func TestEncodePolygons(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	require.Len(t, vertices, 2)
	require.Len(t, codes, 2)

	// 5 + 5 + 2 vertices for exterior, hole and degenerate hole.
	require.Len(t, vertices[0], 12)
	assert.Equal(t, []PathCode{MoveTo, LineTo, LineTo, LineTo, ClosePoly}, codes[0][:5])
	assert.Equal(t, MoveTo, codes[0][5])
	assert.Equal(t, []PathCode{MoveTo, ClosePoly}, codes[0][10:])
	assert.Equal(t, vertices[0][0], vertices[0][4])

	assert.Equal(t, []PathCode{MoveTo, ClosePoly}, codes[1])
}

func TestSplitRings(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	rings, err := SplitRings(vertices[0], codes[0])
	require.NoError(t, err)
	require.Len(t, rings, 3)
	assert.Len(t, rings[0], 5)
	assert.Len(t, rings[2], 2)

	_, err = SplitRings(vertices[0], codes[0][:3])
	assert.ErrorIs(t, err, common.ErrShapeMismatch)

	_, err = SplitRings([]utils.Point{{X: 0, Y: 0}}, []PathCode{LineTo})
	assert.ErrorIs(t, err, common.ErrAssemblyInconsistency)

	rings, err = SplitRings(
		[]utils.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 9, Y: 9}},
		[]PathCode{MoveTo, LineTo, Stop},
	)
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 2)
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"null", "raw", "numpy", "matlab", "geometry", "Shapely", " wkt "} {
		f, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}
	_, err := Lookup("svg")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormatter)
	assert.Equal(t, []string{"geometry", "matlab", "null", "numpy"}, Names())
}

func TestNull(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	out, err := Null(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	raw, ok := out.(Raw)
	require.True(t, ok)
	assert.Equal(t, vertices, raw.Vertices)
	assert.Equal(t, codes, raw.Codes)
	assert.True(t, raw.Level.Filled)
}

func TestNumpy(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	out, err := Numpy(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	arrays := out.(Arrays)
	require.Len(t, arrays.Vertices, 4)
	require.Len(t, arrays.Codes, 4)
	for i := range arrays.Vertices {
		assert.Len(t, arrays.Codes[i], len(arrays.Vertices[i]))
		assert.Equal(t, MoveTo, arrays.Codes[i][0])
		assert.Equal(t, ClosePoly, arrays.Codes[i][len(arrays.Codes[i])-1])
	}

	lines := EncodeLines(sampleLines())
	out, err = Numpy(LineLevel(2), lines, nil)
	require.NoError(t, err)
	assert.Equal(t, lines, out.(Arrays).Vertices)
	assert.Nil(t, out.(Arrays).Codes)

	_, err = Numpy(BandLevel(0, 1), vertices, nil)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormatter)
}

func TestMatlabRoundTrip(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	out, err := Matlab(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	packed := out.(Packed)
	assert.Len(t, packed, 12+2+4)
	assert.Equal(t, [2]float64{0.5, 5}, packed[0])

	loops, err := ParseMatlab(packed)
	require.NoError(t, err)
	require.Len(t, loops, 4)
	assert.Equal(t, 0.5, loops[0].Level)
	assert.Equal(t, square(0, 10, true)[1], loops[0].Points[1])

	lines := EncodeLines(sampleLines())
	out, err = Matlab(LineLevel(2), lines, nil)
	require.NoError(t, err)
	loops, err = ParseMatlab(out.(Packed))
	require.NoError(t, err)
	require.Len(t, loops, 3)
	for i, l := range loops {
		assert.Equal(t, 2.0, l.Level)
		assert.Equal(t, lines[i], l.Points)
	}
}

func TestRawFormattersKeepDegenerateRings(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	single := []utils.Point{{X: 6, Y: 6}, {X: 6, Y: 6}}
	lone := []utils.Point{{X: 20, Y: 20}, {X: 20, Y: 20}}

	out, err := Numpy(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	arrays := out.(Arrays)
	require.Len(t, arrays.Vertices, 4)
	assert.Equal(t, single, arrays.Vertices[2])
	assert.Equal(t, lone, arrays.Vertices[3])

	out, err = Matlab(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	loops, err := ParseMatlab(out.(Packed))
	require.NoError(t, err)
	require.Len(t, loops, 4)
	assert.Equal(t, single, loops[2].Points)
	assert.Equal(t, lone, loops[3].Points)
}

func TestParseMatlab_BadHeader(t *testing.T) {
	_, err := ParseMatlab(Packed{{1, 3}, {0, 0}})
	assert.ErrorIs(t, err, common.ErrShapeMismatch)

	_, err = ParseMatlab(Packed{{1, 0.5}})
	assert.ErrorIs(t, err, common.ErrShapeMismatch)

	loops, err := ParseMatlab(nil)
	require.NoError(t, err)
	assert.Empty(t, loops)
}

func TestGeometry_Filled(t *testing.T) {
	vertices, codes := EncodePolygons(samplePolygons())
	out, err := Geometry(BandLevel(0.5, 1), vertices, codes)
	require.NoError(t, err)
	geoms := out.([]geom.Geometry)

	// The degenerate second polygon and the single-point hole are dropped.
	require.Len(t, geoms, 1)
	require.True(t, geoms[0].IsPolygon())
	poly := geoms[0].MustAsPolygon()
	assert.Equal(t, 1, poly.NumInteriorRings())
	assert.InDelta(t, 100-4, poly.Area(), 1e-9)
	assert.NoError(t, poly.Validate())
}

func TestGeometry_Lines(t *testing.T) {
	out, err := Geometry(LineLevel(2), EncodeLines(sampleLines()), nil)
	require.NoError(t, err)
	geoms := out.([]geom.Geometry)
	require.Len(t, geoms, 3)

	assert.True(t, geoms[0].IsLineString())
	assert.False(t, geoms[0].MustAsLineString().IsClosed())
	assert.True(t, geoms[1].MustAsLineString().IsClosed())
	require.True(t, geoms[2].IsPoint())
	xy, ok := geoms[2].MustAsPoint().XY()
	require.True(t, ok)
	assert.Equal(t, geom.XY{X: 5, Y: 5}, xy)
}
