package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/contours"
	"github.com/MeKo-Tech/contours/internal/gridio"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// StreamMessage is one websocket frame sent to the client. A request yields
// one "level" message per level or band followed by "done", or a single
// "error".
type StreamMessage struct {
	Type      string          `json:"type"` // "level", "done" or "error"
	RequestID string          `json:"request_id,omitempty"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Result    json.RawMessage `json:"result,omitempty"`
	Vertices  int             `json:"vertices,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return s.corsOrigin == "" || s.corsOrigin == "*" || origin == "" || origin == s.corsOrigin
		},
	}
}

// contourWebSocketHandler streams contour results level by level.
func (s *Server) contourWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	s.logger.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages until the client goes away.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	conn.SetReadLimit(s.maxBodyBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("WebSocket closed unexpectedly", "error", err)
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage computes one request and streams its levels.
func (s *Server) handleWebSocketMessage(conn WebSocketConnWriter, data []byte) {
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	var req ContourRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketMessage(conn, StreamMessage{
			Type:      "error",
			RequestID: requestID,
			Error:     "Failed to parse request: " + err.Error(),
			ErrorType: "invalid_request",
		})
		return
	}
	if req.Format == "" {
		req.Format = gridio.OutputJSON
	}

	out, err := s.compute(&req)
	if err != nil {
		_, kind := statusFor(err)
		s.sendWebSocketMessage(conn, StreamMessage{Type: "error", RequestID: requestID, Error: err.Error(), ErrorType: kind})
		return
	}

	parts := splitLevels(out)
	for i, part := range parts {
		var buf bytes.Buffer
		if err := gridio.Write(&buf, part, req.writeOptions()); err != nil {
			s.sendWebSocketMessage(conn, StreamMessage{Type: "error", RequestID: requestID, Error: err.Error(), ErrorType: "internal_error"})
			return
		}
		result := buf.Bytes()
		if req.Format != gridio.OutputJSON {
			// Non-JSON renderings travel as a JSON string.
			result, _ = json.Marshal(buf.String())
		}
		s.sendWebSocketMessage(conn, StreamMessage{
			Type:      "level",
			RequestID: requestID,
			Index:     i,
			Total:     len(parts),
			Result:    result,
			Vertices:  part.Vertices(),
		})
	}
	s.sendWebSocketMessage(conn, StreamMessage{Type: "done", RequestID: requestID, Index: len(parts), Total: len(parts)})
}

// splitLevels returns one single-level output per level or band of out.
func splitLevels(out *gridio.Output) []*gridio.Output {
	parts := make([]*gridio.Output, 0, len(out.Lines)+len(out.Polygons))
	for _, set := range out.Lines {
		parts = append(parts, &gridio.Output{Source: out.Source, Lines: []*contours.LineSet{set}})
	}
	for _, set := range out.Polygons {
		parts = append(parts, &gridio.Output{Source: out.Source, Polygons: []*contours.PolygonSet{set}})
	}
	return parts
}

// sendWebSocketMessage sends a message over WebSocket.
func (s *Server) sendWebSocketMessage(conn WebSocketConnWriter, msg StreamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to marshal WebSocket message", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("Failed to send WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
