package cache

import (
	"sync"
	"time"

	"flex_reviews/internal/adapters/observability"
)

// Freshness reports how a read accessor's value relates to the staleness
// window.
type Freshness int

const (
	Missing Freshness = iota
	Stale
	Fresh
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	}
	return "missing"
}

type entry struct {
	val       any
	fetchedAt time.Time
	window    time.Duration
	stale     bool // forced stale after a failed refresh
}

// Store is the in-process entity cache. Values are replaced whole on Put,
// so concurrent readers never observe partial updates.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]entry
	gens    map[Key]uint64
	now     func() time.Time
}

func New() *Store { return NewWithClock(time.Now) }

// NewWithClock injects the clock; tests advance it to elapse windows.
func NewWithClock(now func() time.Time) *Store {
	return &Store{entries: map[Key]entry{}, gens: map[Key]uint64{}, now: now}
}

func (e entry) fresh(now time.Time) bool {
	return !e.stale && now.Sub(e.fetchedAt) < e.window
}

// Get returns the cached value, or ok=false when the entry is absent or its
// window has elapsed. Callers re-fetch on a miss and Put the result back.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		observability.ObserveCache("entity", "miss")
		return nil, false
	}
	if !e.fresh(s.now()) {
		observability.ObserveCache("entity", "miss")
		return nil, false
	}
	observability.ObserveCache("entity", "hit")
	return e.val, true
}

// Peek reports the raw entry state without counting a hit or miss: the
// value (possibly stale), whether it is present at all, and whether it is
// still inside its window.
func (s *Store) Peek(key Key) (val any, present, fresh bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.val, true, e.fresh(s.now())
}

func (s *Store) Put(key Key, v any, window time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{val: v, fetchedAt: s.now(), window: window}
	s.mu.Unlock()
	observability.ObserveCache("entity", "set")
}

// Generation returns the key's current invalidation generation and
// registers the key. A fetch records the generation before going to the
// network and writes back with PutIfCurrent; any invalidation in between
// bumps the generation so the superseded result is discarded instead of
// resurrecting stale data.
func (s *Store) Generation(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[key]
	if !ok {
		s.gens[key] = 0
	}
	return g
}

// PutIfCurrent stores v unless the key was invalidated since gen was read.
func (s *Store) PutIfCurrent(key Key, v any, window time.Duration, gen uint64) bool {
	s.mu.Lock()
	if s.gens[key] != gen {
		s.mu.Unlock()
		return false
	}
	s.entries[key] = entry{val: v, fetchedAt: s.now(), window: window}
	s.mu.Unlock()
	observability.ObserveCache("entity", "set")
	return true
}

// Invalidate drops the given keys and bumps their generations.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
		s.gens[k]++
	}
	s.mu.Unlock()
	for range keys {
		observability.ObserveCache("entity", "del")
	}
}

// InvalidateKind drops every key of one entity-kind family.
func (s *Store) InvalidateKind(kind Kind) {
	s.mu.Lock()
	n := 0
	for k := range s.entries {
		if k.Kind == kind {
			delete(s.entries, k)
			n++
		}
	}
	for k := range s.gens {
		if k.Kind == kind {
			s.gens[k]++
		}
	}
	s.mu.Unlock()
	for i := 0; i < n; i++ {
		observability.ObserveCache("entity", "del")
	}
}

// MarkStale keeps the value but forces Get to miss, so a failed refresh
// degrades to "stale data shown" instead of clearing the entry. No-op for
// absent keys.
func (s *Store) MarkStale(key Key) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.stale = true
		s.entries[key] = e
		s.mu.Unlock()
		observability.ObserveCache("entity", "stale")
		return
	}
	s.mu.Unlock()
}
