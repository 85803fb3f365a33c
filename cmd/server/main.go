package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/HenryXiaoYang/economic-news-skill/internal/app"
	"github.com/HenryXiaoYang/economic-news-skill/internal/broadcast"
	"github.com/HenryXiaoYang/economic-news-skill/internal/browser"
	"github.com/HenryXiaoYang/economic-news-skill/internal/config"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/enrich"
	"github.com/HenryXiaoYang/economic-news-skill/internal/flashapi"
	"github.com/HenryXiaoYang/economic-news-skill/internal/logging"
	"github.com/HenryXiaoYang/economic-news-skill/internal/market"
	"github.com/HenryXiaoYang/economic-news-skill/internal/poller"
	"github.com/HenryXiaoYang/economic-news-skill/internal/redisstore"
	"github.com/HenryXiaoYang/economic-news-skill/internal/server"
	"github.com/HenryXiaoYang/economic-news-skill/internal/store"
	"github.com/HenryXiaoYang/economic-news-skill/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupDetails picks the detail store backend: Redis when configured,
// process memory otherwise.
func setupDetails(ctx context.Context, cfg *config.Config) (domain.DetailStore, func()) {
	if cfg.RedisURL == "" {
		return store.NewMemoryDetails(), func() {}
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Detail store backed by Redis")
	return redisstore.NewDetails(client), func() { _ = client.Close() }
}

// setupTradingClock loads the market dataset once at startup. A failure is
// not fatal: the clock endpoints simply serve an empty market list.
func setupTradingClock(cfg *config.Config, clock clockwork.Clock) *market.Clock {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	markets, err := market.Load(ctx, &http.Client{Timeout: 10 * time.Second}, cfg.ClockDataURL)
	if err != nil {
		slog.Error("Failed to load trading clock", "error", err)
		return market.NewClock(nil, clock)
	}
	slog.Info("Trading clock loaded", "markets", len(markets))
	return market.NewClock(markets, clock)
}

func runGracefulShutdown(srv *server.Server, cancel context.CancelFunc, hub *broadcast.Hub, b *browser.Browser, closeDetails func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		cancel()
		hub.Stop()
		b.Close()
		closeDetails()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Economic News service starting", "version", version.Get().Version, "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	details, closeDetails := setupDetails(ctx, cfg)

	state := app.NewState()
	ring := store.NewRing(store.DefaultCapacity)
	hub := broadcast.NewHub()

	api := flashapi.NewClient(nil, cfg.FlashAPIURL+"/get_flash_list", cfg.AppID, cfg.AppVersion, cfg.Origin)
	fetcher := enrich.NewFetcher(api, details)

	tradingClock := setupTradingClock(cfg, clock)

	b, err := browser.New(browser.Config{
		NewsURL:   cfg.NewsURL,
		SearchURL: cfg.SearchURL,
		Headless:  cfg.Headless,
	})
	if err != nil {
		slog.Error("Failed to launch browser", "error", err)
		os.Exit(1)
	}

	// The feed page loads in the background; polling skips cycles until it
	// is connected, and the API serves empty state meanwhile.
	go func() {
		if err := b.Start(ctx); err != nil {
			slog.Error("Failed to open feed page", "error", err)
		}
	}()

	p := poller.New(b, state, ring, details, fetcher, hub, clock, cfg.PollInterval)
	go p.Run(ctx)

	srv := server.NewServer(cfg, server.Deps{
		State:    state,
		Ring:     ring,
		Details:  details,
		Searcher: b,
		Feed:     b,
		Clock:    tradingClock,
		Hub:      hub,
		Wall:     clock,
	})

	done := runGracefulShutdown(srv, cancel, hub, b, closeDetails)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Service stopped")
}
