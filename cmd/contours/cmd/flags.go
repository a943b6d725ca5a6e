package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MeKo-Tech/contours/internal/gridio"
)

// The helpers below return the flag value when it was given on the command
// line and the configured fallback otherwise.

func flagString(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func flagInt(cmd *cobra.Command, name string, fallback int) int {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func flagFloat(cmd *cobra.Command, name string, fallback float64) float64 {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func flagBool(cmd *cobra.Command, name string, fallback bool) bool {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func flagStrings(cmd *cobra.Command, name string, fallback []string) []string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetStringSlice(name)
	return v
}

// outputFlags is the rendering flag set shared by lines, filled and batch.
func outputFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("output", pflag.ContinueOnError)
	fs.StringP("format", "f", "json", "output format: json, yaml, wkt, matlab, text")
	fs.Int("precision", 6, "decimals kept in coordinates (-1 keeps full precision)")
	fs.Float64("simplify", 0, "Douglas-Peucker tolerance applied to output vertices (0 disables)")
	fs.String("language", "", "language tag for number formatting in text output (e.g. de, fr)")
	fs.Bool("drop-unmatched-holes", false, "drop holes without an enclosing polygon instead of failing")
	fs.Int("max-side", 0, "downsample image grids so the longer side is at most this many pixels")
	fs.Bool("invert", false, "map dark pixels to high values in image grids")
	return fs
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().AddFlagSet(outputFlags())
}

func imageOptions(cmd *cobra.Command) gridio.ImageOptions {
	return gridio.ImageOptions{
		MaxSide: flagInt(cmd, "max-side", 0),
		Invert:  flagBool(cmd, "invert", false),
	}
}

// addQueryFlags registers the level selection flags; filled adds the band
// bounds.
func addQueryFlags(cmd *cobra.Command, filled bool) {
	if filled {
		cmd.Flags().Float64Slice("levels", nil, "band edges; consecutive pairs form bands (e.g. 0,0.5,1)")
		cmd.Flags().Float64("min", 0, "lower bound of a single band (inclusive)")
		cmd.Flags().Float64("max", 0, "upper bound of a single band (inclusive)")
		cmd.Flags().Int("auto", 0, "number of evenly spaced interior band edges")
		return
	}
	cmd.Flags().Float64Slice("levels", nil, "contour levels (e.g. 0.5,1,1.5)")
	cmd.Flags().Int("auto", 0, "number of evenly spaced levels inside the data range")
}
