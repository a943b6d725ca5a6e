package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWebSocketConn records frames instead of sending them.
type mockWebSocketConn struct {
	sent []StreamMessage
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestHandleWebSocketMessage_StreamsLevels(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	conn := &mockWebSocketConn{}

	s.handleWebSocketMessage(conn, []byte(`{"grid": `+rampGrid+`, "levels": [0.5, 1, 1.5]}`))

	require.Len(t, conn.sent, 4)
	for i, msg := range conn.sent[:3] {
		assert.Equal(t, "level", msg.Type)
		assert.Equal(t, i, msg.Index)
		assert.Equal(t, 3, msg.Total)
		assert.Positive(t, msg.Vertices)

		var body resultBody
		require.NoError(t, json.Unmarshal(msg.Result, &body))
		require.Len(t, body.Levels, 1)
		assert.Equal(t, "lines", body.Mode)
	}
	done := conn.sent[3]
	assert.Equal(t, "done", done.Type)
	assert.Equal(t, 3, done.Total)
	assert.Equal(t, conn.sent[0].RequestID, done.RequestID)
}

func TestHandleWebSocketMessage_FilledAsText(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	conn := &mockWebSocketConn{}

	s.handleWebSocketMessage(conn, []byte(`{"grid": `+rampGrid+`, "filled": true, "levels": [0, 1, 2], "format": "wkt"}`))

	require.Len(t, conn.sent, 3)
	for _, msg := range conn.sent[:2] {
		var text string
		require.NoError(t, json.Unmarshal(msg.Result, &text))
		assert.Contains(t, text, "POLYGON")
	}
	assert.Equal(t, "done", conn.sent[2].Type)
}

func TestHandleWebSocketMessage_Errors(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	tests := []struct {
		name string
		data string
		kind string
	}{
		{"not json", `{`, "invalid_request"},
		{"missing grid", `{"levels": [1]}`, "invalid_request"},
		{"inverted band", `{"grid": ` + rampGrid + `, "filled": true, "min": 2, "max": 1}`, "invalid_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &mockWebSocketConn{}
			s.handleWebSocketMessage(conn, []byte(tt.data))
			require.Len(t, conn.sent, 1)
			assert.Equal(t, "error", conn.sent[0].Type)
			assert.Equal(t, tt.kind, conn.sent[0].ErrorType)
			assert.NotEmpty(t, conn.sent[0].Error)
		})
	}
}

func TestContourWebSocketHandler(t *testing.T) {
	_, mux := newTestServer(t, Config{})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"grid": `+rampGrid+`, "levels": [0.5, 1.5]}`)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var types []string
	for {
		var msg StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		types = append(types, msg.Type)
		if msg.Type == "done" || msg.Type == "error" {
			break
		}
	}
	assert.Equal(t, []string{"level", "level", "done"}, types)
}

func TestUpgraderCheckOrigin(t *testing.T) {
	check := func(corsOrigin, origin string) bool {
		s := &Server{corsOrigin: corsOrigin}
		req := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		return s.upgrader().CheckOrigin(req)
	}

	assert.True(t, check("*", "https://anywhere.example"))
	assert.True(t, check("https://app.example", "https://app.example"))
	assert.True(t, check("https://app.example", ""))
	assert.False(t, check("https://app.example", "https://evil.example"))
}
