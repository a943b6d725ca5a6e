package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/contours/internal/config"
	"github.com/MeKo-Tech/contours/internal/version"
)

// state is shared by the commands of one root command tree.
type state struct {
	cfgFile string
	loader  *config.Loader
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCommand builds the contours command tree. Each tree owns its
// configuration, so tests can run several side by side.
func NewRootCommand() *cobra.Command {
	st := &state{loader: config.NewLoaderWithViper(viper.New())}

	root := &cobra.Command{
		Use:   "contours",
		Short: "Contour lines and filled bands for 2-D grids",
		Long: `contours traces iso-lines and filled iso-bands over structured 2-D grids
using marching squares.

Grids can be uniform, rectilinear or curvilinear and are read from JSON,
YAML, CSV, ESRI ASCII rasters or grayscale images. Results are written as
JSON, YAML, WKT, MATLAB contour matrices or a text summary.

Examples:
  contours lines terrain.asc --levels 100,200,300
  contours filled field.json --min 0.5 --max 1 --format wkt
  contours batch grids/ --recursive --output-dir out/
  contours serve --port 8080`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: st.init,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&st.cfgFile, "config", "", "config file (default is search in ., $XDG_CONFIG_HOME/contours, /etc/contours)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	v := st.loader.GetViper()
	_ = v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))

	root.AddCommand(
		newLinesCommand(st),
		newFilledCommand(st),
		newBatchCommand(st),
		newServeCommand(st),
		newConfigCommand(st),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns a fresh root command for tests.
func GetRootCommand() *cobra.Command {
	return NewRootCommand()
}

// init loads configuration and installs the JSON logger.
func (st *state) init(cmd *cobra.Command, _ []string) error {
	cfg, err := st.loader.LoadWithFile(st.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	st.cfg = cfg

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	st.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(st.logger)
	if used := st.loader.GetConfigFileUsed(); used != "" {
		st.logger.Debug("Configuration loaded", "file", used)
	}
	return nil
}
