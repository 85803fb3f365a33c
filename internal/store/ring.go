package store

import (
	"sync"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

// DefaultCapacity is the fixed size of the flash ring buffer.
const DefaultCapacity = 200

// Ring is a fixed-capacity, most-recent-first buffer of flash records.
// Insertion beyond capacity evicts the chronologically oldest entry; ids are
// unique and re-inserting a known id is rejected.
type Ring struct {
	mu       sync.RWMutex
	capacity int
	records  []domain.FlashRecord
	ids      map[string]struct{}
}

// NewRing creates a ring buffer with the given capacity.
// A capacity of zero or less falls back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity: capacity,
		records:  make([]domain.FlashRecord, 0, capacity),
		ids:      make(map[string]struct{}),
	}
}

// PushFront inserts a record at the head of the buffer. It reports false when
// the record's id is empty or already present, leaving the buffer unchanged.
func (r *Ring) PushFront(rec domain.FlashRecord) bool {
	if rec.ID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[rec.ID]; exists {
		return false
	}

	r.records = append([]domain.FlashRecord{rec}, r.records...)
	r.ids[rec.ID] = struct{}{}

	if len(r.records) > r.capacity {
		evicted := r.records[len(r.records)-1]
		r.records = r.records[:len(r.records)-1]
		delete(r.ids, evicted.ID)
	}
	return true
}

// Has reports whether the id is currently buffered.
func (r *Ring) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[id]
	return ok
}

// Find returns the buffered record for the id, if present.
func (r *Ring) Find(id string) (domain.FlashRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.ids[id]; !ok {
		return domain.FlashRecord{}, false
	}
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return domain.FlashRecord{}, false
}

// Items returns up to limit records, most recent first. A limit of zero or
// less returns everything.
func (r *Ring) Items(limit int) []domain.FlashRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.FlashRecord, n)
	copy(out, r.records[:n])
	return out
}

// Filter returns up to limit records matching keep, most recent first.
func (r *Ring) Filter(limit int, keep func(domain.FlashRecord) bool) []domain.FlashRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.FlashRecord
	for _, rec := range r.records {
		if !keep(rec) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Len returns the number of buffered records.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
