// Package browser drives the headless Chromium session behind the feed.
//
// One long-lived page stays on the live feed and is sampled by evaluating
// JavaScript against its Vue component tree. Searches open a short-lived
// page each, so a slow search never blocks the sampling loop.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

const (
	// feedSettleDelay gives the feed SPA time to hydrate its Vuex store
	// after the DOM loads. The store fills asynchronously, so DOM
	// stability alone is not enough.
	feedSettleDelay = 8 * time.Second

	searchSettleDelay = 3 * time.Second
	searchTimeout     = 25 * time.Second
	navigateTimeout   = 30 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Config holds the page locations and launch mode.
type Config struct {
	NewsURL   string
	SearchURL string
	Headless  bool
}

// Browser owns the Chromium process, the persistent feed page and the
// search tabs. It implements domain.Snapshotter and domain.Searcher.
type Browser struct {
	cfg       Config
	browser   *rod.Browser
	page      *rod.Page
	connected atomic.Bool
}

// New launches a Chromium process. The feed page is not opened until Start.
func New(cfg Config) (*Browser, error) {
	controlURL, err := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to headless browser: %w", err)
	}

	return &Browser{cfg: cfg, browser: b}, nil
}

// Start opens the feed page, waits for the SPA to hydrate and marks the
// session connected. Snapshot returns domain.ErrNotConnected until then.
func (b *Browser) Start(ctx context.Context) error {
	slog.Info("Loading feed page", "url", b.cfg.NewsURL)

	page, err := b.newPage(ctx, navigateTimeout+feedSettleDelay, b.cfg.NewsURL)
	if err != nil {
		return fmt.Errorf("open feed page: %w", err)
	}

	select {
	case <-time.After(feedSettleDelay):
	case <-ctx.Done():
		_ = page.Close()
		return ctx.Err()
	}

	b.page = page
	b.connected.Store(true)
	slog.Info("Feed page ready")
	return nil
}

// Connected reports whether the feed page is open and hydrated.
func (b *Browser) Connected() bool {
	return b.connected.Load()
}

// Snapshot evaluates the extraction script against the live feed page and
// decodes the result. Flash items stay raw so a malformed one can be
// dropped individually downstream.
func (b *Browser) Snapshot(ctx context.Context) (*domain.RawSnapshot, error) {
	if !b.connected.Load() || b.page == nil {
		return nil, domain.ErrNotConnected
	}

	obj, err := b.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("evaluate feed page: %w", err)
	}

	var snap domain.RawSnapshot
	if err := json.Unmarshal([]byte(obj.Value.Str()), &snap); err != nil {
		return nil, fmt.Errorf("decode feed snapshot: %w", err)
	}
	return &snap, nil
}

// Search loads a fresh search page for the query, extracts its result list
// and closes the page again. Items that fail to decode are dropped.
func (b *Browser) Search(ctx context.Context, query string) ([]domain.RawFlash, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	page, err := b.newPage(ctx, searchTimeout, searchPageURL(b.cfg.SearchURL, query))
	if err != nil {
		return nil, fmt.Errorf("open search page: %w", err)
	}
	defer func() { _ = page.Close() }()

	select {
	case <-time.After(searchSettleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	obj, err := page.Context(ctx).Eval(searchResultsJS)
	if err != nil {
		return nil, fmt.Errorf("evaluate search page: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(obj.Value.Str()), &raws); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	out := make([]domain.RawFlash, 0, len(raws))
	for _, raw := range raws {
		var f domain.RawFlash
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Warn("Dropping malformed search result", "error", err)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Close tears down the feed page and the Chromium process.
func (b *Browser) Close() {
	b.connected.Store(false)
	if b.page != nil {
		_ = b.page.Close()
	}
	_ = b.browser.Close()
}

func (b *Browser) newPage(ctx context.Context, timeout time.Duration, pageURL string) (*rod.Page, error) {
	page, err := stealth.Page(b.browser)
	if err != nil {
		return nil, fmt.Errorf("create tab: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}

	// Navigation gets a deadline; the returned page does not.
	nav := page.Context(ctx).Timeout(timeout)
	if err := nav.Navigate(pageURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	if err := nav.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}
	return page, nil
}

func searchPageURL(base, query string) string {
	return strings.TrimSuffix(base, "/") + "/?keyword=" + url.QueryEscape(query)
}
