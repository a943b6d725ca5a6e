package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/contours/internal/gridio"
	"github.com/MeKo-Tech/contours/internal/testutil"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outDir         = flag.String("out", "testdata/grids", "Output directory, relative to the project root")
		generateGrids  = flag.Bool("grids", true, "Generate sample grids (json, csv, asc)")
		generateImages = flag.Bool("images", true, "Generate grayscale height maps")
		verbose        = flag.Bool("v", false, "Verbose output")
		help           = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate sample grids for contours testing.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                 # Generate everything\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -images=false   # Skip height maps\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	root, err := testutil.GetProjectRoot()
	if err != nil {
		slog.Error("Failed to find project root", "error", err)
		os.Exit(1)
	}
	dir := filepath.Join(root, *outDir)
	if err := testutil.EnsureDir(dir); err != nil {
		slog.Error("Failed to create output directory", "dir", dir, "error", err)
		os.Exit(1)
	}
	if *verbose {
		slog.Info("Options", "dir", dir, "grids", *generateGrids, "images", *generateImages)
	}

	if *generateGrids {
		if err := writeGrids(dir); err != nil {
			slog.Error("Failed to generate grids", "error", err)
			os.Exit(1)
		}
		slog.Info("Generated sample grids", "dir", dir)
	}

	if *generateImages {
		path := filepath.Join(dir, "two_peaks.png")
		if err := imaging.Save(gridio.ToImage(twoPeaks()), path); err != nil {
			slog.Error("Failed to save height map", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("Generated height map", "path", path)
	}
}

func cone() *gridio.Source {
	x, y, z := testutil.ConeGrid()
	return &gridio.Source{
		Name:   "cone",
		Kind:   gridio.Uniform,
		Z:      z,
		Origin: [2]float64{x[0], y[0]},
		Step:   [2]float64{x[1] - x[0], y[1] - y[0]},
	}
}

func saddle() *gridio.Source {
	x := []float64{-2, -1, -0.5, 0, 0.5, 1, 2}
	return &gridio.Source{
		Name:  "saddle",
		Kind:  gridio.Rectilinear,
		Z:     testutil.Sample(x, x, testutil.Saddle),
		XAxis: x,
		YAxis: x,
	}
}

func twoPeaks() *gridio.Source {
	axis := testutil.Axis(-3, 3, 0.1)
	return &gridio.Source{
		Name:   "two_peaks",
		Kind:   gridio.Uniform,
		Z:      testutil.Sample(axis, axis, testutil.TwoPeaks),
		Origin: [2]float64{axis[0], axis[0]},
		Step:   [2]float64{0.1, 0.1},
	}
}

func writeGrids(dir string) error {
	files := []struct {
		name   string
		src    *gridio.Source
		encode func(io.Writer, *gridio.Source) error
	}{
		{"cone.json", cone(), gridio.EncodeJSON},
		{"saddle.json", saddle(), gridio.EncodeJSON},
		{"two_peaks.csv", twoPeaks(), gridio.EncodeCSV},
		{"two_peaks.asc", twoPeaks(), gridio.EncodeASC},
		{"plateau.csv", &gridio.Source{Kind: gridio.Uniform, Z: testutil.IsolatedPoint(5, 1, 0), Step: [2]float64{1, 1}}, gridio.EncodeCSV},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.src, f.encode); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		slog.Debug("Wrote grid", "file", f.name, "rows", f.src.Rows(), "cols", f.src.Cols())
	}
	return nil
}

func writeFile(path string, src *gridio.Source, encode func(io.Writer, *gridio.Source) error) error {
	file, err := os.Create(path) //nolint:gosec // G304: output paths are built from the -out flag
	if err != nil {
		return err
	}
	if err := encode(file, src); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
