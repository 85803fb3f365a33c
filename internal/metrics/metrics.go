package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Poller metrics
var (
	// PollCyclesTotal tracks poll cycles by outcome (ok, skipped, error)
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_cycles_total",
			Help: "Total poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	// FlashesIngestedTotal tracks accepted flash records
	FlashesIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_flashes_ingested_total",
			Help: "Total flash records accepted into the ring buffer",
		},
	)

	// FlashesRejectedTotal tracks rejected raw items by reason (gated, malformed)
	FlashesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poller_flashes_rejected_total",
			Help: "Total raw flash items rejected by reason",
		},
		[]string{"reason"},
	)

	// TopListUpdatesTotal tracks top-list replacements
	TopListUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_toplist_updates_total",
			Help: "Total top-list replacements",
		},
	)

	// RingBufferSize tracks the current ring buffer fill
	RingBufferSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ring_buffer_records",
			Help: "Current number of records in the ring buffer",
		},
	)
)

// Enrichment metrics
var (
	// EnrichmentFetchesTotal tracks enrichment attempts by outcome (resolved, miss, error)
	EnrichmentFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_fetches_total",
			Help: "Total enrichment fetch attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Broadcast hub metrics
var (
	// HubSubscribers tracks currently connected subscribers
	HubSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_subscribers",
			Help: "Number of currently connected event subscribers",
		},
	)

	// HubEventsPublishedTotal tracks published events by type
	HubEventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_published_total",
			Help: "Total events published to the hub by type",
		},
		[]string{"type"},
	)

	// HubSlowSubscribersEvicted tracks subscribers dropped for full buffers
	HubSlowSubscribersEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_subscribers_evicted_total",
			Help: "Total subscribers dropped because their event buffer was full",
		},
	)
)

// Search metrics
var (
	// SearchRequestsTotal tracks on-demand searches by outcome (ok, error, invalid)
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total search requests by outcome",
		},
		[]string{"outcome"},
	)
)
