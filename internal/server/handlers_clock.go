package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	apperrors "github.com/HenryXiaoYang/economic-news-skill/internal/errors"
)

func (s *Server) handleClock(c echo.Context) error {
	tradingOnly := c.QueryParam("trading_only") == "true" || c.QueryParam("trading_only") == "1"

	markets := s.clock.Statuses(tradingOnly)
	if markets == nil {
		markets = []domain.MarketStatus{}
	}

	return c.JSON(200, map[string]any{
		"success":     true,
		"count":       len(markets),
		"server_time": s.wall.Now().Format("2006-01-02T15:04:05"),
		"markets":     markets,
	})
}

type marketClockResponse struct {
	Success bool `json:"success"`
	domain.MarketStatus
}

func (s *Server) handleMarketClock(c echo.Context) error {
	name := c.Param("name")

	status, err := s.clock.Lookup(name)
	if errors.Is(err, domain.ErrMarketNotFound) {
		return apperrors.NotFoundError("Market not found").WithField("market", name)
	}
	if err != nil {
		return apperrors.InternalError("clock lookup failed", err)
	}

	return c.JSON(200, marketClockResponse{Success: true, MarketStatus: status})
}
