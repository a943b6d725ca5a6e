package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours/internal/testutil"
)

const tinyGrid = `{"z": [[0, 1], [2, 3]]}`

func TestDiscoverGridFiles_EmptyArgs(t *testing.T) {
	files, err := discoverGridFiles([]string{}, false, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverGridFiles_SingleFiles(t *testing.T) {
	dir := t.TempDir()
	jsonFile := testutil.WriteFile(t, dir, "a.json", tinyGrid)
	txtFile := testutil.WriteFile(t, dir, "notes.txt", "text")
	ascFile := testutil.WriteFile(t, dir, "b.asc", "")

	files, err := discoverGridFiles([]string{jsonFile, txtFile, ascFile}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{jsonFile, ascFile}, files)
}

func TestDiscoverGridFiles_Directory(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.json", tinyGrid)
	b := testutil.WriteFile(t, dir, "b.csv", "0,1\n2,3\n")
	testutil.WriteFile(t, dir, "readme.md", "# grids")
	testutil.WriteFile(t, dir, "nested/c.json", tinyGrid)

	files, err := discoverGridFiles([]string{dir}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestDiscoverGridFiles_Recursive(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.json", tinyGrid)
	c := testutil.WriteFile(t, dir, "nested/deeper/c.json", tinyGrid)

	files, err := discoverGridFiles([]string{dir}, true, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)
}

func TestDiscoverGridFiles_Patterns(t *testing.T) {
	dir := t.TempDir()
	keep := testutil.WriteFile(t, dir, "dem_north.asc", "")
	testutil.WriteFile(t, dir, "dem_south.asc", "")
	testutil.WriteFile(t, dir, "other.json", tinyGrid)

	files, err := discoverGridFiles([]string{dir}, false, []string{"dem_*"}, []string{"*south*"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestDiscoverGridFiles_MissingPath(t *testing.T) {
	_, err := discoverGridFiles([]string{filepath.Join(t.TempDir(), "missing")}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestMatchesAnyPattern(t *testing.T) {
	assert.False(t, matchesAnyPattern("/a/b.json", nil))
	assert.True(t, matchesAnyPattern("/a/b.json", []string{"*.csv", "*.json"}))
	assert.False(t, matchesAnyPattern("/a/b.json", []string{"a*"}))
}
