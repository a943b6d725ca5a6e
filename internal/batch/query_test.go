package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/testutil"
)

func coneGenerator(t *testing.T) *contours.Generator {
	t.Helper()
	x := testutil.Axis(-1, 1, 0.1)
	gen, err := contours.NewRectilinear(x, x, testutil.Sample(x, x, testutil.Cone))
	require.NoError(t, err)
	return gen
}

func ptr(v float64) *float64 { return &v }

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.Error(t, Query{AutoLevels: -1}.Validate())
	assert.Error(t, Query{Filled: true, Levels: []float64{1}}.Validate())
	assert.Error(t, Query{Levels: []float64{1, 2}, Min: ptr(0)}.Validate())
}

func TestQueryLines(t *testing.T) {
	gen := coneGenerator(t)

	out, err := Query{Levels: []float64{0.25, 0.5}}.Execute(gen)
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)
	assert.InDelta(t, 0.25, out.Lines[0].Level, 0)
	assert.Len(t, out.Lines[1].Lines, 1)
	assert.False(t, out.Filled())

	auto, err := Query{}.Execute(gen)
	require.NoError(t, err)
	assert.Len(t, auto.Lines, DefaultAutoLevels)

	three, err := Query{AutoLevels: 3}.Execute(gen)
	require.NoError(t, err)
	assert.Len(t, three.Lines, 3)
}

func TestQueryFilled(t *testing.T) {
	gen := coneGenerator(t)

	bands, err := Query{Filled: true, Levels: []float64{0, 0.5, 1}}.Execute(gen)
	require.NoError(t, err)
	require.Len(t, bands.Polygons, 2)
	assert.InDelta(t, 0.5, bands.Polygons[1].Lower, 0)
	require.Len(t, bands.Polygons[1].Polygons, 1)
	assert.Len(t, bands.Polygons[1].Polygons[0].Holes, 1)

	single, err := Query{Filled: true, Max: ptr(0.5)}.Execute(gen)
	require.NoError(t, err)
	require.Len(t, single.Polygons, 1)
	assert.Len(t, single.Polygons[0].Polygons, 1)

	auto, err := Query{Filled: true, AutoLevels: 2}.Execute(gen)
	require.NoError(t, err)
	assert.Len(t, auto.Polygons, 3)

	all, err := Query{Filled: true}.Execute(gen)
	require.NoError(t, err)
	require.Len(t, all.Polygons, 1)
	assert.Len(t, all.Polygons[0].Polygons, 1)

	_, err = Query{Filled: true, Min: ptr(1), Max: ptr(0.5)}.Execute(gen)
	require.Error(t, err)
	assert.ErrorIs(t, err, contours.ErrInvalidLevel)
}
