package app

import (
	"sort"
	"sync"
)

// Selection tracks the review ids picked for a bulk action. It stays a
// subset of the active review collection: the engine prunes it on every
// collection refresh, silently dropping ids that are no longer present.
type Selection struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: map[int64]struct{}{}}
}

// Toggle flips membership of one id.
func (s *Selection) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SelectAll replaces the selection with exactly the given collection's ids.
func (s *Selection) SelectAll(current []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{}, len(current))
	for _, id := range current {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = map[int64]struct{}{}
}

// Prune intersects the selection with the new collection's id set.
func (s *Selection) Prune(current []int64) {
	keep := make(map[int64]struct{}, len(current))
	for _, id := range current {
		keep[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if _, ok := keep[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// IsAllSelected is true iff the selection covers the whole non-empty
// collection.
func (s *Selection) IsAllSelected(current []int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(current) > 0 && len(s.ids) == len(current)
}

// IDs returns a sorted snapshot.
func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Selection) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
