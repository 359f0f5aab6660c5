package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/pkg/logger"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	requestWait  = 30 * time.Second
)

// StreamEvent is one message sent over /ws/briefings
type StreamEvent struct {
	Type     string              `json:"type"` // stage, result
	Stage    contracts.Stage     `json:"stage,omitempty"`
	Briefing *contracts.Briefing `json:"briefing,omitempty"`
}

// StreamHandler runs a lookup over a WebSocket and reports each stage
type StreamHandler struct {
	runner   Runner
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(runner Runner, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		runner: runner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: log,
	}
}

// Serve handles one session: read {"query"}, stream stages, send the result, close
// GET /ws/briefings
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestWait))
	var req CreateRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.WithError(err).Debug("WebSocket request not received")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := &streamSession{conn: conn}

	// The client only sends pongs from here on; a closed socket cancels the run
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	go session.pingLoop(ctx)

	b := h.runner.Run(ctx, req.Query, func(stage contracts.Stage) {
		if err := session.send(StreamEvent{Type: "stage", Stage: stage}); err != nil {
			h.logger.WithError(err).Debug("Failed to send stage event")
		}
	})

	if err := session.send(StreamEvent{Type: "result", Briefing: b}); err != nil {
		h.logger.WithError(err).Warn("Failed to send briefing result")
		return
	}

	session.close("done")
}

// streamSession serializes writes from the run and the ping loop
type streamSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *streamSession) send(event StreamEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(event)
}

func (s *streamSession) close(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, strings.TrimSpace(reason))
	s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (s *streamSession) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
