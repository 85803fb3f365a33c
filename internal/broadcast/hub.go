package broadcast

import (
	"encoding/json"
	"log/slog"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
	"github.com/HenryXiaoYang/economic-news-skill/internal/metrics"
	"github.com/google/uuid"
)

// Event types delivered to subscribers.
const (
	EventTopList = "toplist"
	EventFlash   = "flash"
)

const subscriberBufferSize = 64

// Event is one formatted message for delivery to every live subscriber.
type Event struct {
	Type string
	Data []byte
}

// Subscriber is one live listener. Its channel is closed by the hub on
// unsubscribe, eviction or shutdown.
type Subscriber struct {
	ID     uuid.UUID
	events chan Event
}

// Events returns the subscriber's receive channel.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdSubscribe struct {
	replyCh chan *Subscriber
}

func (cmdSubscribe) hubCmd() {}

type cmdUnsubscribe struct {
	id uuid.UUID
}

func (cmdUnsubscribe) hubCmd() {}

type cmdPublish struct {
	event Event
}

func (cmdPublish) hubCmd() {}

type cmdCount struct {
	replyCh chan int
}

func (cmdCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Hub ---

// Hub fans events out to all currently registered subscribers.
type Hub struct {
	cmdCh       chan hubCmd
	subscribers map[uuid.UUID]*Subscriber
	done        chan struct{}
}

// NewHub creates and starts a hub.
func NewHub() *Hub {
	h := &Hub{
		cmdCh:       make(chan hubCmd, 256),
		subscribers: make(map[uuid.UUID]*Subscriber),
		done:        make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdSubscribe:
			sub := &Subscriber{
				ID:     uuid.New(),
				events: make(chan Event, subscriberBufferSize),
			}
			h.subscribers[sub.ID] = sub
			metrics.HubSubscribers.Set(float64(len(h.subscribers)))
			slog.Debug("Subscriber registered", "subscriber_id", sub.ID.String(), "total", len(h.subscribers))
			c.replyCh <- sub
		case cmdUnsubscribe:
			h.remove(c.id)
		case cmdPublish:
			h.fanOut(c.event)
		case cmdCount:
			c.replyCh <- len(h.subscribers)
		case cmdStop:
			for id := range h.subscribers {
				h.remove(id)
			}
			return
		}
	}
}

func (h *Hub) remove(id uuid.UUID) {
	sub, exists := h.subscribers[id]
	if !exists {
		return
	}
	delete(h.subscribers, id)
	close(sub.events)
	metrics.HubSubscribers.Set(float64(len(h.subscribers)))
	slog.Debug("Subscriber removed", "subscriber_id", id.String(), "remaining", len(h.subscribers))
}

func (h *Hub) fanOut(event Event) {
	metrics.HubEventsPublishedTotal.WithLabelValues(event.Type).Inc()

	var slow []uuid.UUID
	for id, sub := range h.subscribers {
		select {
		case sub.events <- event:
		default:
			slow = append(slow, id)
		}
	}

	for _, id := range slow {
		slog.Warn("Dropping slow subscriber", "subscriber_id", id.String())
		metrics.HubSlowSubscribersEvicted.Inc()
		h.remove(id)
	}
}

// --- Public API ---

// Subscribe registers a new subscriber and returns it. After Stop it
// returns a subscriber whose channel is already closed, so consumers unwind
// the same way they do on eviction.
func (h *Hub) Subscribe() *Subscriber {
	replyCh := make(chan *Subscriber, 1)
	select {
	case h.cmdCh <- cmdSubscribe{replyCh: replyCh}:
	case <-h.done:
		return closedSubscriber()
	}
	select {
	case sub := <-replyCh:
		return sub
	case <-h.done:
		return closedSubscriber()
	}
}

func closedSubscriber() *Subscriber {
	events := make(chan Event)
	close(events)
	return &Subscriber{ID: uuid.New(), events: events}
}

// Unsubscribe removes a subscriber and closes its channel. Removing an
// already-removed subscriber, or unsubscribing after Stop, is a no-op.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	select {
	case h.cmdCh <- cmdUnsubscribe{id: id}:
	case <-h.done:
	}
}

// Publish enqueues an event to every registered subscriber. Best effort: a
// subscriber with a full buffer is dropped without affecting the others, and
// publishing after Stop is a no-op.
func (h *Hub) Publish(event Event) {
	select {
	case h.cmdCh <- cmdPublish{event: event}:
	case <-h.done:
	}
}

// PublishFlash formats and publishes one accepted flash record.
func (h *Hub) PublishFlash(record domain.FlashRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		slog.Error("Failed to marshal flash event", "error", err)
		return
	}
	h.Publish(Event{Type: EventFlash, Data: data})
}

// PublishTopList formats and publishes the full current top list.
func (h *Hub) PublishTopList(entries []domain.TopListEntry) {
	data, err := json.Marshal(map[string]any{"items": entries})
	if err != nil {
		slog.Error("Failed to marshal toplist event", "error", err)
		return
	}
	h.Publish(Event{Type: EventTopList, Data: data})
}

// Count returns the number of live subscribers, zero once stopped.
func (h *Hub) Count() int {
	replyCh := make(chan int, 1)
	select {
	case h.cmdCh <- cmdCount{replyCh: replyCh}:
	case <-h.done:
		return 0
	}
	select {
	case n := <-replyCh:
		return n
	case <-h.done:
		return 0
	}
}

// Stop shuts the hub down, closing every subscriber channel. Blocks until
// the hub goroutine has exited; stopping twice is safe.
func (h *Hub) Stop() {
	select {
	case h.cmdCh <- cmdStop{}:
	case <-h.done:
	}
	<-h.done
}
