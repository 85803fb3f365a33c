package poller

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"slices"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/metrics"
)

// topListChanged reports whether the sampled top list is non-empty and
// structurally different from the stored one.
func topListChanged(current, sampled []domain.TopListEntry) bool {
	return len(sampled) > 0 && !slices.Equal(current, sampled)
}

// categoriesChanged reports whether the sampled tree is non-empty and
// differs from the stored one. The tree is replaced wholesale, never merged.
func categoriesChanged(current, sampled []domain.Category) bool {
	return len(sampled) > 0 && !reflect.DeepEqual(current, sampled)
}

// newRawFlashes decodes the sampled flash list and returns the newly observed
// items in chronological order (the source list is newest-first). Malformed
// items are dropped individually; items whose id is already known are
// skipped.
func newRawFlashes(sampled []json.RawMessage, known func(string) bool) []domain.RawFlash {
	out := make([]domain.RawFlash, 0, len(sampled))
	for i := len(sampled) - 1; i >= 0; i-- {
		var f domain.RawFlash
		if err := json.Unmarshal(sampled[i], &f); err != nil {
			slog.Warn("Dropping malformed flash item", "error", err)
			metrics.FlashesRejectedTotal.WithLabelValues("malformed").Inc()
			continue
		}
		if f.ID == "" || known(f.ID) {
			continue
		}
		out = append(out, f)
	}
	return out
}
