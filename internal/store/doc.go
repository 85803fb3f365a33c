// Package store holds the in-memory record stores.
//
// Ring is the bounded, most-recent-first flash buffer with oldest-eviction and
// id-set dedup. MemoryDetails is the default write-once detail store; the
// Redis-backed alternative lives in internal/redisstore.
package store
