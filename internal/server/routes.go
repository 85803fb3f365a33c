package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Service overview
	s.echo.GET("/", s.handleIndex)

	// Feed queries
	s.echo.GET("/top10", s.handleTop10)
	s.echo.GET("/latest", s.handleLatest)
	s.echo.GET("/categories", s.handleCategories)
	s.echo.GET("/category/:id", s.handleCategory)
	s.echo.GET("/search", s.handleSearch)

	// Trading clock
	s.echo.GET("/clock", s.handleClock)
	s.echo.GET("/clock/:name", s.handleMarketClock)

	// Live streams
	s.echo.GET("/events", s.handleSSE)
	s.echo.GET("/ws/events", s.handleWebSocket)
}
