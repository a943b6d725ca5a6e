package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/contours/internal/config"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	corsOrigin         string
	maxGridCells       int
	maxBodyBytes       int64
	timeout            time.Duration
	dropUnmatchedHoles bool
	rateLimiter        *RateLimiter
	logger             *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Host               string
	Port               int
	CORSOrigin         string
	MaxGridCells       int
	MaxBodyMB          int64
	TimeoutSec         int
	DropUnmatchedHoles bool
	RateLimit          config.RateLimitConfig
	Logger             *slog.Logger
}

// ContourRequest is the body of POST /v1/contours and /v1/filled and of
// each websocket message.
type ContourRequest struct {
	// Grid is a grid document as accepted by the JSON grid reader.
	Grid       json.RawMessage `json:"grid"`
	Levels     []float64       `json:"levels,omitempty"`
	AutoLevels int             `json:"auto_levels,omitempty"`
	Min        *float64        `json:"min,omitempty"`
	Max        *float64        `json:"max,omitempty"`
	Simplify   float64         `json:"simplify,omitempty"`
	Precision  *int            `json:"precision,omitempty"`
	Format     string          `json:"format,omitempty"`
	Language   string          `json:"language,omitempty"`
	// Filled selects bands on the websocket endpoint; the HTTP routes set
	// it from the path.
	Filled bool `json:"filled,omitempty"`
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// NewServer creates a new contour server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.MaxGridCells < 0 {
		return nil, errors.New("max grid cells must be >= 0")
	}
	if cfg.MaxBodyMB < 0 {
		return nil, errors.New("max body size must be >= 0")
	}

	s := &Server{
		corsOrigin:         cfg.CORSOrigin,
		maxGridCells:       cfg.MaxGridCells,
		maxBodyBytes:       cfg.MaxBodyMB * 1024 * 1024,
		timeout:            time.Duration(cfg.TimeoutSec) * time.Second,
		dropUnmatchedHoles: cfg.DropUnmatchedHoles,
		logger:             cfg.Logger,
	}
	if s.maxGridCells == 0 {
		s.maxGridCells = config.DefaultConfig().Server.MaxGridCells
	}
	if s.maxBodyBytes == 0 {
		s.maxBodyBytes = int64(config.DefaultConfig().Server.MaxBodyMB) * 1024 * 1024
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if rl := cfg.RateLimit; rl.Enabled {
		s.rateLimiter = NewRateLimiter(rl.RequestsPerMinute, rl.RequestsPerHour, rl.MaxRequestsPerDay, rl.MaxDataPerDay)
	}
	return s, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/v1/contours", s.corsMiddleware(s.rateLimitMiddleware(s.withTimeout(s.contoursHandler))))
	mux.HandleFunc("/v1/filled", s.corsMiddleware(s.rateLimitMiddleware(s.withTimeout(s.filledHandler))))
	mux.HandleFunc("/v1/ws", s.rateLimitMiddleware(s.contourWebSocketHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
