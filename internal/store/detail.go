package store

import (
	"context"
	"sync"
)

// MemoryDetails is the in-process detail store: external id to resolved body
// text, write-once per key. It grows for the process lifetime; the sampled
// top list is small enough that this has never mattered in practice.
type MemoryDetails struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryDetails creates an empty in-memory detail store.
func NewMemoryDetails() *MemoryDetails {
	return &MemoryDetails{entries: make(map[string]string)}
}

// Get returns the stored detail text for the id, if any.
func (d *MemoryDetails) Get(_ context.Context, id string) (string, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	content, ok := d.entries[id]
	return content, ok, nil
}

// PutIfAbsent stores content for the id unless a value already exists.
// It reports whether the write took effect.
func (d *MemoryDetails) PutIfAbsent(_ context.Context, id, content string) (bool, error) {
	if id == "" {
		return false, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.entries[id]; exists {
		return false, nil
	}
	d.entries[id] = content
	return true, nil
}

// Len returns the number of stored entries.
func (d *MemoryDetails) Len(_ context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries), nil
}
