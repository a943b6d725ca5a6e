package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/gridio"
)

// FileResult is the outcome of one grid file.
type FileResult struct {
	Path       string
	Rows, Cols int
	Output     *gridio.Output
	OutputFile string
	Duration   time.Duration
	Err        error
	// Skipped marks files never processed because the batch was cancelled.
	Skipped bool
}

// Levels returns the number of levels or bands traced.
func (r *FileResult) Levels() int {
	if r.Output == nil {
		return 0
	}
	return len(r.Output.Lines) + len(r.Output.Polygons)
}

// processFile loads one grid, runs the query and writes the per-file output.
func processFile(ctx context.Context, path string, cfg *Config) *FileResult {
	timer := common.NewTimer()
	res := &FileResult{Path: path}
	defer func() { res.Duration = timer.Stop() }()

	if err := ctx.Err(); err != nil {
		res.Err, res.Skipped = err, true
		return res
	}

	src, err := gridio.Load(path, gridio.LoadOptions{Image: cfg.Image})
	if err != nil {
		res.Err = err
		return res
	}
	res.Rows, res.Cols = src.Rows(), src.Cols()

	gen, err := src.Generator(
		contours.WithLogger(cfg.logger()),
		contours.WithDropUnmatchedHoles(cfg.DropUnmatchedHoles),
	)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	trace := common.NewTimer()
	out, err := cfg.Query.Execute(gen)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	trace.Stop()
	out.Source = src.Name
	res.Output = gridio.Simplify(out, cfg.Simplify)

	if cfg.OutputDir != "" {
		res.OutputFile, err = writeFileOutput(res.Output, path, cfg)
		if err != nil {
			res.Err = err
			return res
		}
	}

	cfg.logger().Debug("Grid processed",
		"file", path,
		"rows", res.Rows,
		"cols", res.Cols,
		"levels", res.Levels(),
		"vertices", res.Output.Vertices(),
		"trace_ms", trace.Milliseconds())
	return res
}

func writeFileOutput(out *gridio.Output, path string, cfg *Config) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + "_contours" + outputExtensions[cfg.outputFormat()]
	target := filepath.Join(cfg.OutputDir, name)

	f, err := os.Create(target) //nolint:gosec // G304: output dir comes from the CLI
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	werr := gridio.Write(f, out, gridio.WriteOptions{Format: cfg.outputFormat(), Precision: cfg.Precision})
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("write %s: %w", target, werr)
	}
	return target, nil
}
