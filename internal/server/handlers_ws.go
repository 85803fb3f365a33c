package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/HenryXiaoYang/economic-news-skill/internal/broadcast"
)

const wsWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // feed is public, same policy as the SSE endpoint
	},
}

// wsEnvelope is the wire shape of one WebSocket message.
type wsEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	sub := s.hub.Subscribe()
	writer := newWSWriter(conn)

	// Replay, then pump hub events into the per-connection writer.
	go func() {
		defer writer.close()
		s.replayWS(writer)
		for event := range sub.Events() {
			if !writer.send(event) {
				return
			}
		}
	}()

	// Read pump — blocks until the connection closes. Inbound frames are
	// discarded; the stream is one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unsubscribe(sub.ID)
	_ = conn.Close()
	return nil
}

func (s *Server) replayWS(w *wsWriter) {
	if topList := s.state.TopList(); len(topList) > 0 {
		if data, err := json.Marshal(map[string]any{"items": topList}); err == nil {
			w.send(broadcast.Event{Type: broadcast.EventTopList, Data: data})
		}
	}
	records := s.ring.Items(replayCount)
	for i := len(records) - 1; i >= 0; i-- {
		data, err := json.Marshal(records[i])
		if err != nil {
			continue
		}
		w.send(broadcast.Event{Type: broadcast.EventFlash, Data: data})
	}
}

// --- Per-connection writer ---

// wsWriter serializes writes to one connection so hub fan-out never blocks
// on a slow client socket.
type wsWriter struct {
	conn   *websocket.Conn
	sendCh chan broadcast.Event
	done   chan struct{}
}

func newWSWriter(conn *websocket.Conn) *wsWriter {
	w := &wsWriter{
		conn:   conn,
		sendCh: make(chan broadcast.Event, 16),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *wsWriter) run() {
	defer close(w.done)
	for event := range w.sendCh {
		payload, err := json.Marshal(wsEnvelope{Event: event.Type, Data: event.Data})
		if err != nil {
			slog.Error("Failed to marshal WebSocket envelope", "error", err)
			continue
		}
		_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// send queues an event. It reports false once the writer has stopped or its
// queue is full, meaning the client fell too far behind.
func (w *wsWriter) send(event broadcast.Event) bool {
	select {
	case <-w.done:
		return false
	default:
	}
	select {
	case w.sendCh <- event:
		return true
	case <-w.done:
		return false
	default:
		return false
	}
}

func (w *wsWriter) close() {
	close(w.sendCh)
}
