package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectRoot(t *testing.T) {
	root, err := GetProjectRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
	assert.True(t, FileExists(filepath.Join(root, "go.mod")))
	assert.NoError(t, ValidateProjectRoot(root))
}

func TestEnsureDirAndWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "nested/grid.csv", "1,2\n3,4\n")
	assert.True(t, FileExists(path))
	assert.True(t, DirExists(filepath.Join(dir, "nested")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n3,4\n", string(data))

	assert.False(t, DirExists(path))
	assert.Error(t, ValidateProjectRoot(dir))
}

func TestAxis(t *testing.T) {
	a := Axis(-1, 1, 0.01)
	require.Len(t, a, 201)
	assert.InDelta(t, -1.0, a[0], 1e-12)
	assert.InDelta(t, 1.0, a[200], 1e-9)
	assert.Len(t, Axis(0, 3, 1), 4)
}

func TestFields(t *testing.T) {
	x, y, z := ConeGrid()
	require.Len(t, z, len(y))
	require.Len(t, z[0], len(x))
	assert.InDelta(t, math.Sqrt2, z[0][0], 1e-9)
	assert.InDelta(t, 0.0, z[100][100], 1e-9)

	p := IsolatedPoint(5, 1, 0)
	assert.Equal(t, 1.0, p[2][2])
	assert.Equal(t, 0.0, p[0][4])

	assert.InDelta(t, TwoPeaks(-1, 0), TwoPeaks(1, 0), 1e-12)
	assert.Equal(t, -2.0, Saddle(1, -2))
	assert.Equal(t, 7.0, Constant(2, 3, 7)[1][2])
}
