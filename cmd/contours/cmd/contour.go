package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/batch"
	"github.com/MeKo-Tech/contours/internal/gridio"
)

func newLinesCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines <grid>",
		Short: "Trace contour lines at one or more levels",
		Long: `Trace iso-lines of a grid. Levels come from --levels, from --auto or
from the configuration file; without any, ten levels are picked inside the
data range.

Examples:
  contours lines field.json --levels 0.5,1
  contours lines dem.asc --auto 20 --format wkt --output lines.wkt
  contours lines scan.png --levels 0.5 --max-side 512`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.runQuery(cmd, args[0], st.linesQuery(cmd))
		},
	}
	addQueryFlags(cmd, false)
	addOutputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	return cmd
}

func newFilledCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filled <grid>",
		Short: "Trace filled bands between levels",
		Long: `Trace filled iso-bands of a grid. A single band is selected with --min
and/or --max (an omitted bound is open); --levels gives consecutive band
edges; --auto splits the data range into bands.

Examples:
  contours filled field.json --min 0.5 --max 1
  contours filled field.json --levels 0,0.25,0.5,1 --format text
  contours filled dem.asc --min 1000 --format wkt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return st.runQuery(cmd, args[0], st.filledQuery(cmd))
		},
	}
	addQueryFlags(cmd, true)
	addOutputFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	return cmd
}

// queryFlagsGiven reports whether any level selection flag was passed, in
// which case configured levels are ignored entirely.
func queryFlagsGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"levels", "auto", "min", "max"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

func (st *state) linesQuery(cmd *cobra.Command) batch.Query {
	q := batch.Query{Levels: st.cfg.Contour.Levels, AutoLevels: st.cfg.Contour.AutoLevels}
	if queryFlagsGiven(cmd) {
		q.Levels, _ = cmd.Flags().GetFloat64Slice("levels")
		q.AutoLevels, _ = cmd.Flags().GetInt("auto")
	}
	return q
}

func (st *state) filledQuery(cmd *cobra.Command) batch.Query {
	q := batch.Query{
		Filled:     true,
		Levels:     st.cfg.Contour.Levels,
		AutoLevels: st.cfg.Contour.AutoLevels,
		Min:        st.cfg.Contour.Min,
		Max:        st.cfg.Contour.Max,
	}
	if !queryFlagsGiven(cmd) {
		return q
	}
	q = batch.Query{Filled: true}
	q.Levels, _ = cmd.Flags().GetFloat64Slice("levels")
	q.AutoLevels, _ = cmd.Flags().GetInt("auto")
	if cmd.Flags().Changed("min") {
		v, _ := cmd.Flags().GetFloat64("min")
		q.Min = &v
	}
	if cmd.Flags().Changed("max") {
		v, _ := cmd.Flags().GetFloat64("max")
		q.Max = &v
	}
	return q
}

// runQuery loads one grid, runs q and writes the result.
func (st *state) runQuery(cmd *cobra.Command, path string, q batch.Query) error {
	cfg := st.cfg
	if err := q.Validate(); err != nil {
		return err
	}

	start := time.Now()
	src, err := gridio.Load(path, gridio.LoadOptions{Image: imageOptions(cmd)})
	if err != nil {
		return fmt.Errorf("loading grid: %w", err)
	}

	gen, err := src.Generator(
		contours.WithLogger(st.logger),
		contours.WithDropUnmatchedHoles(flagBool(cmd, "drop-unmatched-holes", cfg.Contour.DropUnmatchedHoles)),
	)
	if err != nil {
		return fmt.Errorf("building grid %s: %w", src.Name, err)
	}

	out, err := q.Execute(gen)
	if err != nil {
		return err
	}
	out.Source = src.Name
	out = gridio.Simplify(out, flagFloat(cmd, "simplify", cfg.Output.Simplify))

	opts := gridio.WriteOptions{
		Format:    flagString(cmd, "format", cfg.Output.Format),
		Precision: flagInt(cmd, "precision", cfg.Output.Precision),
		Language:  flagString(cmd, "language", ""),
	}
	if err := writeOutput(cmd, flagString(cmd, "output", cfg.Output.File), func(w io.Writer) error {
		return gridio.Write(w, out, opts)
	}); err != nil {
		return err
	}

	st.logger.Debug("Contours written",
		"grid", src.Name,
		"rows", src.Rows(),
		"cols", src.Cols(),
		"levels", len(out.Lines)+len(out.Polygons),
		"vertices", out.Vertices(),
		"duration", time.Since(start).Round(time.Microsecond))
	return nil
}

// writeOutput sends render to the named file, or to the command's stdout
// when file is empty.
func writeOutput(cmd *cobra.Command, file string, render func(io.Writer) error) error {
	if file == "" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(file) //nolint:gosec // G304: output path comes from the CLI
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	werr := render(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("writing %s: %w", file, werr)
	}
	return nil
}
