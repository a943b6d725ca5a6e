// Package batch runs contour queries over many grid files with a worker
// pool and summarizes the outcome.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoGridFiles is returned when discovery finds nothing to process.
var ErrNoGridFiles = errors.New("no grid files found")

// Result holds the result of batch processing.
type Result struct {
	Files       []*FileResult
	Duration    time.Duration
	WorkerCount int
}

// Run discovers grid files under paths and processes them. Per-file
// failures are recorded in the result; unless ContinueOnError is set the
// first one cancels the rest and is returned alongside the partial result.
func Run(ctx context.Context, paths []string, cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch config: %w", err)
	}

	files, err := discoverGridFiles(paths, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover grid files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoGridFiles
	}

	cfg.logger().Info("Batch starting", "files", len(files), "workers", cfg.Workers)
	start := time.Now()
	results := processFilesParallel(ctx, files, cfg.Workers, !cfg.ContinueOnError, cfg.Progress,
		func(ctx context.Context, path string) *FileResult {
			return processFile(ctx, path, cfg)
		})

	res := &Result{Files: results, Duration: time.Since(start), WorkerCount: cfg.Workers}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !cfg.ContinueOnError {
		if ferr := res.FirstError(); ferr != nil {
			return res, ferr
		}
	}
	return res, nil
}

// FirstError returns the first failure in input order, ignoring files that
// were skipped because of it.
func (r *Result) FirstError() error {
	for _, f := range r.Files {
		if f.Err != nil && !f.Skipped {
			return f.Err
		}
	}
	return nil
}
