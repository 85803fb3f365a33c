package domain

import "context"

// --- Interfaces ---

// Snapshotter exposes the external rendering surface. Snapshot is only
// meaningful once Connected reports true; before that the poller skips the
// cycle without error.
type Snapshotter interface {
	Connected() bool
	Snapshot(ctx context.Context) (*RawSnapshot, error)
}

// Searcher runs a free-text query against the upstream search surface and
// returns the raw, unclassified item list.
type Searcher interface {
	Search(ctx context.Context, query string) ([]RawFlash, error)
}

// FlashLister is the secondary range-query endpoint: one batch of raw items
// at-or-before the given id.
type FlashLister interface {
	FlashList(ctx context.Context, maxID string) ([]RawFlash, error)
}

// DetailStore maps an external id to its resolved, markup-stripped body text.
// PutIfAbsent is write-once: the first successful resolution wins and later
// writes for the same id are no-ops. It reports whether the value was stored.
type DetailStore interface {
	Get(ctx context.Context, id string) (string, bool, error)
	PutIfAbsent(ctx context.Context, id, content string) (bool, error)
	Len(ctx context.Context) (int, error)
}

// Publisher fans an event out to every live subscriber.
type Publisher interface {
	PublishFlash(record FlashRecord)
	PublishTopList(entries []TopListEntry)
}
