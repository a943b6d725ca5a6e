package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/contours/internal/server"
)

func newServeCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server for the contour API",
		Long: `Start an HTTP server that computes contours for posted grids.

The server provides the following endpoints:
  POST /v1/contours - Contour lines for a grid
  POST /v1/filled   - Filled bands for a grid
  GET  /v1/ws       - WebSocket streaming one message per level
  GET  /health      - Health check endpoint
  GET  /metrics     - Prometheus metrics

Examples:
  contours serve
  contours serve --port 8080
  contours serve --host 0.0.0.0 --port 3000 --rate-limit-enabled`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.runServe(cmd)
		},
	}

	cmd.Flags().StringP("host", "H", "localhost", "server host")
	cmd.Flags().IntP("port", "p", 8080, "server port")
	cmd.Flags().String("cors-origin", "*", "CORS allowed origin")
	cmd.Flags().Int("max-grid-cells", 4_000_000, "largest accepted grid in cells")
	cmd.Flags().Int("max-body-mb", 32, "maximum request body size in MB")
	cmd.Flags().Int("timeout", 30, "request timeout in seconds")
	cmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	cmd.Flags().Bool("drop-unmatched-holes", false, "drop holes without an enclosing polygon instead of failing")
	// Rate limiting flags
	cmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	cmd.Flags().Int("requests-per-minute", 60, "maximum requests per minute per client")
	cmd.Flags().Int("requests-per-hour", 1000, "maximum requests per hour per client")
	cmd.Flags().Int("max-requests-per-day", 5000, "maximum requests per day per client")
	cmd.Flags().Int64("max-data-per-day", 100*1024*1024, "maximum request bytes per day per client")
	return cmd
}

// serverConfig maps configuration and flags onto server.Config.
func (st *state) serverConfig(cmd *cobra.Command) (server.Config, int) {
	sc := st.cfg.Server
	rl := sc.RateLimit
	rl.Enabled = flagBool(cmd, "rate-limit-enabled", rl.Enabled)
	rl.RequestsPerMinute = flagInt(cmd, "requests-per-minute", rl.RequestsPerMinute)
	rl.RequestsPerHour = flagInt(cmd, "requests-per-hour", rl.RequestsPerHour)
	rl.MaxRequestsPerDay = flagInt(cmd, "max-requests-per-day", rl.MaxRequestsPerDay)
	if cmd.Flags().Changed("max-data-per-day") {
		rl.MaxDataPerDay, _ = cmd.Flags().GetInt64("max-data-per-day")
	}

	return server.Config{
		Host:               flagString(cmd, "host", sc.Host),
		Port:               flagInt(cmd, "port", sc.Port),
		CORSOrigin:         flagString(cmd, "cors-origin", sc.CORSOrigin),
		MaxGridCells:       flagInt(cmd, "max-grid-cells", sc.MaxGridCells),
		MaxBodyMB:          int64(flagInt(cmd, "max-body-mb", sc.MaxBodyMB)),
		TimeoutSec:         flagInt(cmd, "timeout", sc.TimeoutSec),
		DropUnmatchedHoles: flagBool(cmd, "drop-unmatched-holes", st.cfg.Contour.DropUnmatchedHoles),
		RateLimit:          rl,
		Logger:             st.logger,
	}, flagInt(cmd, "shutdown-timeout", sc.ShutdownTimeout)
}

func (st *state) runServe(cmd *cobra.Command) error {
	cfg, shutdownTimeout := st.serverConfig(cmd)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", cfg.Port)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.TimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		st.logger.Info("Starting contour server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		st.logger.Info("Received shutdown signal")
	}

	st.logger.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		st.logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Close(); err != nil {
		st.logger.Error("Server cleanup error", "error", err)
	}
	st.logger.Info("Graceful shutdown completed")
	return nil
}
