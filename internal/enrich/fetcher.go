package enrich

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/metrics"
)

var markupPattern = regexp.MustCompile(`<[^>]+>`)

// StripMarkup removes HTML tags from body text.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// Fetcher resolves detail text for top-list entries into the detail store.
type Fetcher struct {
	api     domain.FlashLister
	details domain.DetailStore
}

// NewFetcher creates an enrichment fetcher.
func NewFetcher(api domain.FlashLister, details domain.DetailStore) *Fetcher {
	return &Fetcher{api: api, details: details}
}

// Resolve attempts one resolution pass over the given top list. Entries that
// already have a detail entry are skipped; a failed query or an id missing
// from its batch is left unresolved for the next pass.
func (f *Fetcher) Resolve(ctx context.Context, topList []domain.TopListEntry) {
	resolved := 0
	for _, entry := range topList {
		if entry.FlashID == "" {
			continue
		}

		if _, ok, err := f.details.Get(ctx, entry.FlashID); err != nil {
			slog.Warn("Detail store read failed", "flash_id", entry.FlashID, "error", err)
			continue
		} else if ok {
			continue
		}

		batch, err := f.api.FlashList(ctx, entry.FlashID)
		if err != nil {
			slog.Warn("Failed to fetch toplist details", "flash_id", entry.FlashID, "error", err)
			metrics.EnrichmentFetchesTotal.WithLabelValues("error").Inc()
			continue
		}

		content, found := findContent(batch, entry.FlashID)
		if !found {
			slog.Warn("Flash id missing from its own batch", "flash_id", entry.FlashID, "batch_size", len(batch))
			metrics.EnrichmentFetchesTotal.WithLabelValues("miss").Inc()
			continue
		}

		stored, err := f.details.PutIfAbsent(ctx, entry.FlashID, StripMarkup(content))
		if err != nil {
			slog.Warn("Detail store write failed", "flash_id", entry.FlashID, "error", err)
			continue
		}
		if stored {
			resolved++
			metrics.EnrichmentFetchesTotal.WithLabelValues("resolved").Inc()
		}
	}

	if resolved > 0 {
		slog.Info("TopList details fetched", "resolved", resolved, "toplist_size", len(topList))
	}
}

func findContent(batch []domain.RawFlash, id string) (string, bool) {
	for _, f := range batch {
		if f.ID != id {
			continue
		}
		if f.Data == nil {
			return "", true
		}
		return f.Data.Content, true
	}
	return "", false
}
