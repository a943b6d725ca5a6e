package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contours_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contours_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Contour computation metrics
	computationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contours_computations_total",
			Help: "Total number of contour computations",
		},
		[]string{"mode", "status"}, // mode: lines, filled
	)

	computationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contours_computation_duration_seconds",
			Help:    "Contour computation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	verticesEmitted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contours_vertices_emitted",
			Help:    "Number of vertices in a contour result",
			Buckets: prometheus.ExponentialBuckets(10, 4, 9),
		},
		[]string{"mode"},
	)

	gridCellsTraced = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contours_grid_cells",
			Help:    "Number of grid cells per request",
			Buckets: prometheus.ExponentialBuckets(16, 4, 10),
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contours_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: minute, hour, requests, data
	)

	requestBodyBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contours_request_body_bytes",
			Help:    "Size of request bodies in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contours_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contours_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
