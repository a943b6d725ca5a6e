package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/batch"
	"github.com/MeKo-Tech/contours/internal/common"
	"github.com/MeKo-Tech/contours/internal/gridio"
	"github.com/MeKo-Tech/contours/internal/version"
)

const defaultPrecision = 6

var responseFormats = []string{gridio.OutputJSON, gridio.OutputYAML, gridio.OutputWKT, gridio.OutputMatlab, gridio.OutputText}

// requestError carries an HTTP status for failures caused by the request
// itself rather than by the contour engine.
type requestError struct {
	status int
	kind   string
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, kind: "invalid_request", err: fmt.Errorf(format, args...)}
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, "Method not allowed", "method_not_allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to encode health response", "error", err)
	}
}

// contoursHandler traces contour lines.
func (s *Server) contoursHandler(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, false)
}

// filledHandler traces filled bands.
func (s *Server) filledHandler(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, true)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request, filled bool) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "Method not allowed", "method_not_allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	var req ContourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, "Request body too large", "too_large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeErrorResponse(w, "Invalid request body: "+err.Error(), "invalid_request", http.StatusBadRequest)
		return
	}
	if r.ContentLength > 0 {
		requestBodyBytes.Observe(float64(r.ContentLength))
	}
	if f := r.URL.Query().Get("format"); f != "" {
		req.Format = f
	}
	req.Filled = filled

	out, err := s.compute(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := gridio.Write(&buf, out, req.writeOptions()); err != nil {
		s.writeErrorResponse(w, "Failed to render result: "+err.Error(), "internal_error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(req.Format))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("Failed to write contour response", "error", err)
	}
}

// compute validates req, builds a generator over its grid and runs the
// query.
func (s *Server) compute(req *ContourRequest) (*gridio.Output, error) {
	if req.Format != "" && !slices.Contains(responseFormats, req.Format) {
		return nil, badRequest("unsupported format %q", req.Format)
	}
	if req.Simplify < 0 {
		return nil, badRequest("simplify must be >= 0")
	}
	if len(req.Grid) == 0 {
		return nil, badRequest("missing grid")
	}

	query := batch.Query{
		Filled:     req.Filled,
		Levels:     req.Levels,
		AutoLevels: req.AutoLevels,
		Min:        req.Min,
		Max:        req.Max,
	}
	if err := query.Validate(); err != nil {
		return nil, badRequest("%w", err)
	}

	src, err := gridio.DecodeJSON(bytes.NewReader(req.Grid))
	if err != nil {
		return nil, badRequest("grid: %w", err)
	}
	if cells := src.Cells(); cells > s.maxGridCells {
		return nil, &requestError{
			status: http.StatusRequestEntityTooLarge,
			kind:   "too_large",
			err:    fmt.Errorf("grid has %d cells, limit is %d", cells, s.maxGridCells),
		}
	}
	gridCellsTraced.Observe(float64(src.Cells()))

	gen, err := src.Generator(
		contours.WithLogger(s.logger),
		contours.WithDropUnmatchedHoles(s.dropUnmatchedHoles),
	)
	if err != nil {
		return nil, err
	}

	mode := "lines"
	if req.Filled {
		mode = "filled"
	}
	timer := common.NewTimer()
	out, err := query.Execute(gen)
	if err != nil {
		computationsTotal.WithLabelValues(mode, "error").Inc()
		return nil, err
	}
	computationsTotal.WithLabelValues(mode, "success").Inc()
	computationDuration.WithLabelValues(mode).Observe(timer.Stop().Seconds())

	out = gridio.Simplify(out, req.Simplify)
	verticesEmitted.WithLabelValues(mode).Observe(float64(out.Vertices()))
	s.logger.Debug("Contour request computed",
		"mode", mode,
		"rows", src.Rows(),
		"cols", src.Cols(),
		"vertices", out.Vertices(),
		"duration_ms", timer.Milliseconds())
	return out, nil
}

func (req *ContourRequest) writeOptions() gridio.WriteOptions {
	prec := defaultPrecision
	if req.Precision != nil {
		prec = *req.Precision
	}
	return gridio.WriteOptions{Format: req.Format, Precision: prec, Language: req.Language}
}

func contentType(format string) string {
	switch format {
	case gridio.OutputJSON, "":
		return "application/json"
	case gridio.OutputYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// statusFor maps an error to its HTTP status and a short machine-readable
// kind.
func statusFor(err error) (int, string) {
	var re *requestError
	switch {
	case errors.As(err, &re):
		return re.status, re.kind
	case errors.Is(err, contours.ErrInvalidLevel):
		return http.StatusBadRequest, "invalid_level"
	case errors.Is(err, contours.ErrShapeMismatch):
		return http.StatusBadRequest, "shape_mismatch"
	case errors.Is(err, contours.ErrInvalidGrid):
		return http.StatusBadRequest, "invalid_grid"
	case errors.Is(err, contours.ErrUnsupportedFormatter):
		return http.StatusBadRequest, "unsupported_formatter"
	case errors.Is(err, contours.ErrAssemblyInconsistency):
		return http.StatusInternalServerError, "assembly_inconsistency"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Contour request failed", "error", err, "kind", kind)
	}
	s.writeErrorResponse(w, err.Error(), kind, status)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message, kind string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorType: kind,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}
