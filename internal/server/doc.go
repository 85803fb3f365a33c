// Package server implements the HTTP server using Echo framework.
//
// Routes: feed queries (/top10, /latest, /categories, /category/:id, /search),
// trading clock (/clock, /clock/:name), live streams (/events SSE,
// /ws/events WebSocket) and observability (/health*, /metrics, /version).
// Handlers split by domain: handlers_feed.go, handlers_clock.go,
// handlers_events.go, handlers_ws.go, handlers_health.go.
package server
