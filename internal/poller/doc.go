// Package poller drives the ingestion pipeline.
//
// On a fixed period it samples the rendering surface, diffs the snapshot
// against what is already known (top list by structural equality, flashes by
// id membership, category tree by deep equality), classifies the newly
// observed items oldest-first and feeds accepted records to the ring buffer
// and the broadcast hub. A top-list change additionally schedules one
// enrichment pass. Every failure is per-cycle or per-item; the loop never
// stops short of process shutdown.
package poller
