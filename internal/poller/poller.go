package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/HenryXiaoYang/economic-news-skill/internal/app"
	"github.com/HenryXiaoYang/economic-news-skill/internal/classify"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/enrich"
	"github.com/HenryXiaoYang/economic-news-skill/internal/metrics"
	"github.com/HenryXiaoYang/economic-news-skill/internal/store"
	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the fixed poll period.
const DefaultInterval = 3 * time.Second

// Poller samples the rendering surface on a fixed period and reconciles each
// snapshot into the shared state, ring buffer and broadcast hub.
type Poller struct {
	snapshotter domain.Snapshotter
	state       *app.State
	ring        *store.Ring
	details     domain.DetailStore
	fetcher     *enrich.Fetcher
	hub         domain.Publisher
	clock       clockwork.Clock
	interval    time.Duration
}

// New creates a poller. An interval of zero or less falls back to
// DefaultInterval.
func New(snapshotter domain.Snapshotter, state *app.State, ring *store.Ring, details domain.DetailStore, fetcher *enrich.Fetcher, hub domain.Publisher, clock clockwork.Clock, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		snapshotter: snapshotter,
		state:       state,
		ring:        ring,
		details:     details,
		fetcher:     fetcher,
		hub:         hub,
		clock:       clock,
		interval:    interval,
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("Poller started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Poller stopped")
			return
		case <-ticker.Chan():
			p.cycle(ctx)
		}
	}
}

// cycle performs one sample-diff-ingest pass. Any failure skips the cycle;
// the last-known state keeps being served.
func (p *Poller) cycle(ctx context.Context) {
	if !p.snapshotter.Connected() {
		metrics.PollCyclesTotal.WithLabelValues("skipped").Inc()
		return
	}

	snap, err := p.snapshotter.Snapshot(ctx)
	if err != nil {
		slog.Warn("Poll error", "error", err)
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		return
	}

	p.reconcileTopList(ctx, snap.TopList)
	p.reconcileCategories(snap.Categories)
	p.reconcileFlashes(snap.Flashes)

	metrics.PollCyclesTotal.WithLabelValues("ok").Inc()
}

func (p *Poller) reconcileTopList(ctx context.Context, sampled []domain.TopListEntry) {
	if !topListChanged(p.state.TopList(), sampled) {
		return
	}

	p.state.SetTopList(sampled, p.clock.Now())
	metrics.TopListUpdatesTotal.Inc()
	slog.Info("TopList updated", "items", len(sampled))

	// Fast path: referenced records still in the ring buffer resolve
	// without a network round trip.
	for _, entry := range sampled {
		if entry.FlashID == "" {
			continue
		}
		if rec, ok := p.ring.Find(entry.FlashID); ok {
			if _, err := p.details.PutIfAbsent(ctx, entry.FlashID, rec.Content); err != nil {
				slog.Warn("Detail store write failed", "flash_id", entry.FlashID, "error", err)
			}
		}
	}

	go p.fetcher.Resolve(ctx, sampled)
	p.hub.PublishTopList(sampled)
}

func (p *Poller) reconcileCategories(sampled []domain.Category) {
	if !categoriesChanged(p.state.Categories(), sampled) {
		return
	}
	p.state.SetCategories(sampled)
	slog.Info("ClassifyList updated", "categories", len(sampled))
}

func (p *Poller) reconcileFlashes(sampled []json.RawMessage) {
	accepted := 0
	for _, raw := range newRawFlashes(sampled, p.ring.Has) {
		rec, ok := classify.ParseFlash(raw)
		if !ok {
			metrics.FlashesRejectedTotal.WithLabelValues("gated").Inc()
			continue
		}
		if !p.ring.PushFront(rec) {
			continue
		}
		accepted++
		metrics.FlashesIngestedTotal.Inc()
		p.hub.PublishFlash(rec)
	}

	if accepted > 0 {
		metrics.RingBufferSize.Set(float64(p.ring.Len()))
		slog.Info("Added new flash items", "count", accepted)
	}
}
