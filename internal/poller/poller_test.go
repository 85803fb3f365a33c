package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/HenryXiaoYang/economic-news-skill/internal/app"
	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/enrich"
	"github.com/HenryXiaoYang/economic-news-skill/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotter struct {
	mu        sync.Mutex
	connected bool
	snap      *domain.RawSnapshot
	err       error
	calls     int
}

func (f *fakeSnapshotter) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeSnapshotter) Snapshot(_ context.Context) (*domain.RawSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

type published struct {
	kind  string
	flash domain.FlashRecord
	top   []domain.TopListEntry
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (f *fakePublisher) PublishFlash(record domain.FlashRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{kind: "flash", flash: record})
}

func (f *fakePublisher) PublishTopList(entries []domain.TopListEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{kind: "toplist", top: entries})
}

func (f *fakePublisher) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]published, len(f.events))
	copy(out, f.events)
	return out
}

type stubLister struct {
	mu    sync.Mutex
	calls []string
}

func (s *stubLister) FlashList(_ context.Context, maxID string) ([]domain.RawFlash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, maxID)
	return nil, errors.New("unavailable")
}

func (s *stubLister) called() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

type fixture struct {
	snapshotter *fakeSnapshotter
	state       *app.State
	ring        *store.Ring
	details     *store.MemoryDetails
	lister      *stubLister
	hub         *fakePublisher
	clock       *clockwork.FakeClock
	poller      *Poller
}

func newFixture() *fixture {
	f := &fixture{
		snapshotter: &fakeSnapshotter{connected: true},
		state:       app.NewState(),
		ring:        store.NewRing(store.DefaultCapacity),
		details:     store.NewMemoryDetails(),
		lister:      &stubLister{},
		hub:         &fakePublisher{},
		clock:       clockwork.NewFakeClock(),
	}
	f.poller = New(f.snapshotter, f.state, f.ring, f.details,
		enrich.NewFetcher(f.lister, f.details), f.hub, f.clock, 0)
	return f
}

func rawFlash(t *testing.T, id, content string, gated bool) json.RawMessage {
	t.Helper()
	vip := 0
	if gated {
		vip = 1
	}
	raw, err := json.Marshal(map[string]any{
		"id":   id,
		"vip":  vip,
		"data": map[string]any{"content": content},
	})
	require.NoError(t, err)
	return raw
}

func TestCycle_SkipsWhenDisconnected(t *testing.T) {
	f := newFixture()
	f.snapshotter.connected = false

	f.poller.cycle(context.Background())

	assert.Equal(t, 0, f.snapshotter.calls)
	assert.Empty(t, f.hub.all())
}

func TestCycle_SnapshotErrorServesStaleState(t *testing.T) {
	f := newFixture()
	f.state.SetTopList([]domain.TopListEntry{{FlashID: "old"}}, f.clock.Now())
	f.snapshotter.err = errors.New("page crashed")

	f.poller.cycle(context.Background())

	assert.Equal(t, "old", f.state.TopList()[0].FlashID)
	assert.Empty(t, f.hub.all())
}

func TestCycle_IngestsNewFlashesOldestFirst(t *testing.T) {
	f := newFixture()
	// Source order is newest-first.
	f.snapshotter.snap = &domain.RawSnapshot{
		Flashes: []json.RawMessage{
			rawFlash(t, "3", "newest", false),
			rawFlash(t, "2", "middle", false),
			rawFlash(t, "1", "oldest", false),
		},
	}

	f.poller.cycle(context.Background())

	// Buffer is most-recent-first.
	items := f.ring.Items(0)
	require.Len(t, items, 3)
	assert.Equal(t, "3", items[0].ID)
	assert.Equal(t, "1", items[2].ID)

	// Broadcasts went out oldest-first.
	events := f.hub.all()
	require.Len(t, events, 3)
	assert.Equal(t, "1", events[0].flash.ID)
	assert.Equal(t, "3", events[2].flash.ID)
}

func TestCycle_ReobservedIDsAreNoOps(t *testing.T) {
	f := newFixture()
	f.snapshotter.snap = &domain.RawSnapshot{
		Flashes: []json.RawMessage{rawFlash(t, "1", "body", false)},
	}

	f.poller.cycle(context.Background())
	f.poller.cycle(context.Background())

	assert.Equal(t, 1, f.ring.Len())
	assert.Len(t, f.hub.all(), 1)
}

func TestCycle_GatedFlashesNeverEnterTheBuffer(t *testing.T) {
	f := newFixture()
	f.snapshotter.snap = &domain.RawSnapshot{
		Flashes: []json.RawMessage{
			rawFlash(t, "2", "public", false),
			rawFlash(t, "1", "premium only", true),
		},
	}

	f.poller.cycle(context.Background())

	assert.Equal(t, 1, f.ring.Len())
	assert.False(t, f.ring.Has("1"))

	events := f.hub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].flash.ID)
}

func TestCycle_TopListChange(t *testing.T) {
	f := newFixture()

	// "hit" is already buffered, "miss" is not.
	f.ring.PushFront(domain.FlashRecord{ID: "hit", Content: "buffered body"})

	top := []domain.TopListEntry{
		{FlashID: "hit", Title: "Hit", DisplayTime: "10:00"},
		{FlashID: "miss", Title: "Miss", DisplayTime: "09:00"},
	}
	f.snapshotter.snap = &domain.RawSnapshot{TopList: top}

	f.poller.cycle(context.Background())

	assert.Equal(t, top, f.state.TopList())
	assert.False(t, f.state.LastUpdate().IsZero())

	// Fast path resolved the buffered entry without a fetch.
	content, ok, err := f.details.Get(context.Background(), "hit")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "buffered body", content)

	// The miss went to the enrichment fetcher.
	require.Eventually(t, func() bool {
		return len(f.lister.called()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"miss"}, f.lister.called())

	// One toplist broadcast.
	events := f.hub.all()
	require.Len(t, events, 1)
	assert.Equal(t, "toplist", events[0].kind)
	assert.Equal(t, top, events[0].top)
}

func TestCycle_UnchangedTopListNotRebroadcast(t *testing.T) {
	f := newFixture()
	top := []domain.TopListEntry{{FlashID: "a", Title: "A"}}
	f.snapshotter.snap = &domain.RawSnapshot{TopList: top}

	f.poller.cycle(context.Background())
	f.poller.cycle(context.Background())

	count := 0
	for _, e := range f.hub.all() {
		if e.kind == "toplist" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCycle_CategoriesReplacedWholesale(t *testing.T) {
	f := newFixture()
	f.snapshotter.snap = &domain.RawSnapshot{
		Categories: []domain.Category{
			{ID: 1, Name: "Macro", Child: []domain.Category{{ID: 11, Name: "Rates"}}},
		},
	}

	f.poller.cycle(context.Background())

	cats := f.state.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Macro", cats[0].Name)

	name, ok := f.state.CategoryName(11)
	require.True(t, ok)
	assert.Equal(t, "Rates", name)

	// No broadcast for a category change.
	assert.Empty(t, f.hub.all())
}

func TestRun_TicksOnTheClock(t *testing.T) {
	f := newFixture()
	f.snapshotter.snap = &domain.RawSnapshot{
		Flashes: []json.RawMessage{rawFlash(t, "1", "body", false)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		f.poller.Run(ctx)
		close(done)
	}()

	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultInterval)

	require.Eventually(t, func() bool { return f.ring.Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestNewRawFlashes_DropsMalformedAndKnown(t *testing.T) {
	known := map[string]bool{"known": true}
	raw := []json.RawMessage{
		rawFlash(t, "fresh", "body", false),
		json.RawMessage(`"not an object"`),
		rawFlash(t, "known", "body", false),
		json.RawMessage(`{"time":"no id"}`),
	}

	out := newRawFlashes(raw, func(id string) bool { return known[id] })
	require.Len(t, out, 1)
	assert.Equal(t, "fresh", out[0].ID)
}

func TestTopListChanged(t *testing.T) {
	a := []domain.TopListEntry{{FlashID: "1", Title: "A"}}
	b := []domain.TopListEntry{{FlashID: "1", Title: "B"}}

	assert.False(t, topListChanged(a, nil), "empty sample never counts as a change")
	assert.False(t, topListChanged(a, a))
	assert.True(t, topListChanged(a, b))
	assert.True(t, topListChanged(nil, a))
}

func TestCategoriesChanged(t *testing.T) {
	a := []domain.Category{{ID: 1, Name: "A", Child: []domain.Category{{ID: 2, Name: "B"}}}}
	same := []domain.Category{{ID: 1, Name: "A", Child: []domain.Category{{ID: 2, Name: "B"}}}}
	diff := []domain.Category{{ID: 1, Name: "A"}}

	assert.False(t, categoriesChanged(a, nil))
	assert.False(t, categoriesChanged(a, same))
	assert.True(t, categoriesChanged(a, diff))
}

func TestCycle_BigBatchRespectsCapacity(t *testing.T) {
	f := newFixture()

	raws := make([]json.RawMessage, 0, 250)
	for i := 249; i >= 0; i-- {
		raws = append(raws, rawFlash(t, fmt.Sprintf("id-%d", i), "body", false))
	}
	f.snapshotter.snap = &domain.RawSnapshot{Flashes: raws}

	f.poller.cycle(context.Background())

	assert.Equal(t, store.DefaultCapacity, f.ring.Len())
	// The newest ids survive, the oldest were evicted.
	assert.True(t, f.ring.Has("id-249"))
	assert.False(t, f.ring.Has("id-0"))
}
