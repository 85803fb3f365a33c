package app

import (
	"sync"
	"time"

	"github.com/HenryXiaoYang/economic-news-skill/internal/domain"
)

// State is the shared, mutable view of the sampled feed.
type State struct {
	mu         sync.RWMutex
	topList    []domain.TopListEntry
	categories []domain.Category
	lastUpdate time.Time
}

// NewState creates an empty state.
func NewState() *State {
	return &State{}
}

// TopList returns a copy of the current top list.
func (s *State) TopList() []domain.TopListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TopListEntry, len(s.topList))
	copy(out, s.topList)
	return out
}

// SetTopList replaces the top list and stamps the update time.
func (s *State) SetTopList(entries []domain.TopListEntry, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topList = entries
	s.lastUpdate = now
}

// Categories returns the current classification tree.
func (s *State) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// SetCategories replaces the classification tree wholesale.
func (s *State) SetCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

// CategoryName resolves a category id to its name, searching one child level
// deep the way the upstream tree nests.
func (s *State) CategoryName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cat := range s.categories {
		if cat.ID == id {
			return cat.Name, true
		}
		for _, child := range cat.Child {
			if child.ID == id {
				return child.Name, true
			}
		}
	}
	return "", false
}

// LastUpdate returns the time of the last top-list change, zero if none yet.
func (s *State) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Counts returns the current top-list and category counts in one read.
func (s *State) Counts() (topList, categories int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.topList), len(s.categories)
}
