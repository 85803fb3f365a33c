package server

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
)

var errNotReady = errors.New("feed page not connected")

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"status":    "ok",
		"connected": s.feed.Connected(),
	})
}

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.wall.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	checks := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"browser", s.checkBrowser},
		{"details", s.checkDetails},
	}

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return c.JSON(503, map[string]any{
				"status":       "unhealthy",
				"failed_check": check.name,
				"error":        err.Error(),
			})
		}
	}

	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) checkBrowser(context.Context) error {
	if !s.feed.Connected() {
		return errNotReady
	}
	return nil
}

func (s *Server) checkDetails(ctx context.Context) error {
	_, err := s.details.Len(ctx)
	return err
}
