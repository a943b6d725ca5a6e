package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/contours/internal/testutil"
)

func TestBatchCommand(t *testing.T) {
	dir := isolate(t)
	grids := filepath.Join(dir, "grids")
	testutil.WriteFile(t, grids, "a.json", rampGrid)
	testutil.WriteFile(t, grids, "b.csv", "0,1,2\n0,1,2\n")
	testutil.WriteFile(t, grids, "nested/c.json", rampGrid)
	testutil.WriteFile(t, grids, "notes.txt", "ignored")
	outDir := filepath.Join(dir, "out")

	t.Run("lines with output dir", func(t *testing.T) {
		out, _, err := execute(t, "batch", grids, "--levels", "0.5", "--output-dir", outDir, "--format", "wkt")
		require.NoError(t, err)
		assert.Contains(t, out, "a.json: 3x3, 1 levels")
		assert.Contains(t, out, "b.csv: 2x3, 1 levels")
		assert.NotContains(t, out, "c.json")
		assert.Contains(t, out, "Processed: 2")
		assert.Contains(t, readFile(t, filepath.Join(outDir, "a_contours.wkt")), "0.5\tLINESTRING")
		assert.FileExists(t, filepath.Join(outDir, "b_contours.wkt"))
	})

	t.Run("recursive filled json summary", func(t *testing.T) {
		out, _, err := execute(t, "batch", grids, "-r", "--filled", "--levels", "0,1,2", "--summary", "json", "--workers", "2")
		require.NoError(t, err)
		var summary struct {
			Files []struct {
				File   string `json:"file"`
				Levels int    `json:"levels"`
			} `json:"files"`
			Stats struct {
				ProcessedFiles int `json:"processed_files"`
				WorkerCount    int `json:"workers"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &summary), out)
		require.Len(t, summary.Files, 3)
		for _, f := range summary.Files {
			assert.Equal(t, 2, f.Levels, f.File)
		}
		assert.Equal(t, 3, summary.Stats.ProcessedFiles)
		assert.Equal(t, 2, summary.Stats.WorkerCount)
	})

	t.Run("csv summary to file", func(t *testing.T) {
		target := filepath.Join(dir, "summary.csv")
		out, _, err := execute(t, "batch", grids, "--levels", "0.5", "--summary", "csv", "--output", target)
		require.NoError(t, err)
		assert.Empty(t, out)
		lines := strings.Split(strings.TrimSpace(readFile(t, target)), "\n")
		assert.Len(t, lines, 3)
	})

	t.Run("exclude pattern", func(t *testing.T) {
		out, _, err := execute(t, "batch", grids, "--levels", "0.5", "--exclude", "*.csv")
		require.NoError(t, err)
		assert.NotContains(t, out, "b.csv")
		assert.Contains(t, out, "Processed: 1")
	})
}

func TestBatchCommand_Errors(t *testing.T) {
	dir := isolate(t)

	t.Run("no grid files", func(t *testing.T) {
		empty := filepath.Join(dir, "empty")
		testutil.WriteFile(t, empty, "readme.txt", "nothing")
		_, stderr, err := execute(t, "batch", empty)
		require.Error(t, err)
		assert.Contains(t, stderr, "no grid files found")
	})

	t.Run("failing grid", func(t *testing.T) {
		grids := filepath.Join(dir, "mixed")
		testutil.WriteFile(t, grids, "a.json", rampGrid)
		testutil.WriteFile(t, grids, "b.json", `{"z": [[1, 2]]}`)

		out, stderr, err := execute(t, "batch", grids, "--levels", "1.5", "--workers", "1")
		require.Error(t, err)
		assert.Contains(t, stderr, "b.json")
		assert.Contains(t, out, "Failed: 1")

		out, _, err = execute(t, "batch", grids, "--levels", "1.5", "--continue-on-error")
		require.NoError(t, err)
		assert.Contains(t, out, "Processed: 1")
		assert.Contains(t, out, "Failed: 1")
	})

	t.Run("bad summary format", func(t *testing.T) {
		_, stderr, err := execute(t, "batch", dir, "--summary", "xml")
		require.Error(t, err)
		assert.Contains(t, stderr, "invalid summary format")
	})
}
