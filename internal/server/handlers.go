package server

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/HenryXiaoYang/economic-news-skill/internal/errors"
	"github.com/HenryXiaoYang/economic-news-skill/internal/version"
)

func (s *Server) handleIndex(c echo.Context) error {
	topCount, classifyCount := s.state.Counts()

	var lastUpdate any
	if t := s.state.LastUpdate(); !t.IsZero() {
		lastUpdate = t.Format("2006-01-02T15:04:05")
	}

	return c.JSON(200, map[string]any{
		"service":        "Economic News",
		"version":        version.Get().Version,
		"connected":      s.feed.Connected(),
		"last_update":    lastUpdate,
		"top_list_count": topCount,
		"flash_count":    s.ring.Len(),
		"classify_count": classifyCount,
		"sse_clients":    s.hub.Count(),
	})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}

// queryInt parses an optional integer query parameter. A malformed value is
// a validation error, not a silent default.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationError("parameter must be an integer").WithField("param", name)
	}
	return v, nil
}
