package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/contours/internal/batch"
)

func newBatchCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <paths...>",
		Short: "Contour many grid files in parallel",
		Long: `Run the same contour query over many grid files using a pool of
workers. Directories are scanned for supported grid files; --recursive
descends into subdirectories. Each grid's result is written to
--output-dir as <name>_contours.<ext>, and a per-file summary is printed.

Examples:
  contours batch grids/ --levels 0.5,1 --output-dir out/
  contours batch a.json b.asc --filled --min 0 --max 10 --format wkt --output-dir out/
  contours batch grids/ -r --workers 8 --summary json --output summary.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.runBatch(cmd, args)
		},
	}

	addQueryFlags(cmd, true)
	addOutputFlags(cmd)
	cmd.Flags().Bool("filled", false, "trace filled bands instead of lines")
	cmd.Flags().StringP("output", "o", "", "summary file (default: stdout)")
	cmd.Flags().String("output-dir", "", "directory for per-grid results (default: results are not written)")
	cmd.Flags().String("summary", "text", "summary format: text, json, csv")
	cmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default from config, %d CPUs available)", runtime.NumCPU()))
	cmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	cmd.Flags().StringSlice("include", nil, "file patterns to include")
	cmd.Flags().StringSlice("exclude", nil, "file patterns to exclude")
	cmd.Flags().Bool("continue-on-error", false, "keep going after a grid fails")
	cmd.Flags().Bool("progress", false, "log progress while processing")
	return cmd
}

// batchConfig maps configuration and flags onto batch.Config.
func (st *state) batchConfig(cmd *cobra.Command) *batch.Config {
	cfg := st.cfg

	var q batch.Query
	if flagBool(cmd, "filled", false) {
		q = st.filledQuery(cmd)
	} else {
		q = st.linesQuery(cmd)
	}

	bc := &batch.Config{
		Query:              q,
		DropUnmatchedHoles: flagBool(cmd, "drop-unmatched-holes", cfg.Contour.DropUnmatchedHoles),
		Simplify:           flagFloat(cmd, "simplify", cfg.Output.Simplify),
		Image:              imageOptions(cmd),
		Workers:            flagInt(cmd, "workers", cfg.Batch.Workers),
		Recursive:          flagBool(cmd, "recursive", cfg.Batch.Recursive),
		IncludePatterns:    flagStrings(cmd, "include", cfg.Batch.Include),
		ExcludePatterns:    flagStrings(cmd, "exclude", cfg.Batch.Exclude),
		OutputDir:          flagString(cmd, "output-dir", cfg.Batch.OutputDir),
		OutputFormat:       flagString(cmd, "format", cfg.Output.Format),
		Precision:          flagInt(cmd, "precision", cfg.Output.Precision),
		ContinueOnError:    flagBool(cmd, "continue-on-error", cfg.Batch.ContinueOnError),
		Logger:             st.logger,
	}
	if flagBool(cmd, "progress", false) {
		bc.Progress = batch.NewLogProgressCallback(st.logger, slog.LevelInfo)
	}
	return bc
}

func (st *state) runBatch(cmd *cobra.Command, args []string) error {
	bc := st.batchConfig(cmd)
	summary := flagString(cmd, "summary", "text")
	switch summary {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid summary format %q (must be text, json or csv)", summary)
	}

	result, runErr := batch.Run(cmd.Context(), args, bc)
	if result == nil {
		if errors.Is(runErr, batch.ErrNoGridFiles) {
			return fmt.Errorf("%w in %v", runErr, args)
		}
		return fmt.Errorf("batch processing failed: %w", runErr)
	}

	if err := writeOutput(cmd, flagString(cmd, "output", ""), func(w io.Writer) error {
		return result.WriteSummary(w, summary)
	}); err != nil {
		return err
	}

	st.logger.Info("Batch finished",
		"files", len(result.Files),
		"failed", result.Stats().FailedFiles,
		"duration", result.Duration)
	if runErr != nil {
		return fmt.Errorf("batch processing failed: %w", runErr)
	}
	return nil
}
