package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/HenryXiaoYang/economic-news-skill/internal/app"
	"github.com/HenryXiaoYang/economic-news-skill/internal/broadcast"
	"github.com/HenryXiaoYang/economic-news-skill/internal/config"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	apperrors "github.com/HenryXiaoYang/economic-news-skill/internal/errors"
	"github.com/HenryXiaoYang/economic-news-skill/internal/market"
	"github.com/HenryXiaoYang/economic-news-skill/internal/store"
)

// Deps carries the shared components the handlers read from. The server owns
// none of them.
type Deps struct {
	State    *app.State
	Ring     *store.Ring
	Details  domain.DetailStore
	Searcher domain.Searcher
	Feed     domain.Snapshotter
	Clock    *market.Clock
	Hub      *broadcast.Hub
	Wall     clockwork.Clock
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	state     *app.State
	ring      *store.Ring
	details   domain.DetailStore
	searcher  domain.Searcher
	feed      domain.Snapshotter
	clock     *market.Clock
	hub       *broadcast.Hub
	wall      clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:     e,
		config:   cfg,
		state:    deps.State,
		ring:     deps.Ring,
		details:  deps.Details,
		searcher: deps.Searcher,
		feed:     deps.Feed,
		clock:    deps.Clock,
		hub:      deps.Hub,
		wall:     deps.Wall,
	}
	srv.startTime = deps.Wall.Now()

	// Register routes
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
