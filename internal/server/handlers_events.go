package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HenryXiaoYang/economic-news-skill/internal/broadcast"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

// keepaliveInterval bounds how long an idle SSE connection goes without
// traffic, so proxies do not reap it.
const keepaliveInterval = 30 * time.Second

// replayCount is how many buffered records a new subscriber receives
// before live delivery begins.
const replayCount = 20

func (s *Server) handleSSE(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// Subscribe before replaying so nothing published during the replay
	// is lost; duplicates are cheaper than gaps.
	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub.ID)

	if err := s.replay(w); err != nil {
		return nil
	}

	ticker := s.wall.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				// Evicted or hub shutdown.
				return nil
			}
			if err := writeSSE(w, event); err != nil {
				return nil
			}
		case <-ticker.Chan():
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// replay sends the current top list followed by the most recent buffered
// records in chronological order, so a late joiner replays history the way
// it originally happened.
func (s *Server) replay(w *echo.Response) error {
	if topList := s.state.TopList(); len(topList) > 0 {
		data, err := json.Marshal(map[string]any{"items": topList})
		if err != nil {
			slog.Error("Failed to marshal toplist replay", "error", err)
		} else if err := writeSSE(w, broadcast.Event{Type: broadcast.EventTopList, Data: data}); err != nil {
			return err
		}
	}

	records := s.ring.Items(replayCount)
	for i := len(records) - 1; i >= 0; i-- {
		if err := writeFlashSSE(w, records[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeFlashSSE(w *echo.Response, rec domain.FlashRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		slog.Error("Failed to marshal flash replay", "error", err)
		return nil
	}
	return writeSSE(w, broadcast.Event{Type: broadcast.EventFlash, Data: data})
}

func writeSSE(w *echo.Response, event broadcast.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
