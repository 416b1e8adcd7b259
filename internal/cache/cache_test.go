package cache_test

import (
	"testing"
	"time"

	"flex_reviews/internal/cache"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore() (*cache.Store, *clock) {
	ck := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return cache.NewWithClock(ck.now), ck
}

func TestGetAfterPut(t *testing.T) {
	s, ck := newStore()
	key := cache.ReviewsKey()

	s.Put(key, "v1", time.Minute)
	if v, ok := s.Get(key); !ok || v.(string) != "v1" {
		t.Fatalf("expected hit with v1, got %v ok=%v", v, ok)
	}

	// still inside the window
	ck.advance(59 * time.Second)
	if _, ok := s.Get(key); !ok {
		t.Fatalf("expected hit just inside the window")
	}

	// window elapsed with no intervening put
	ck.advance(2 * time.Second)
	if _, ok := s.Get(key); ok {
		t.Fatalf("expected miss after window elapsed")
	}
}

func TestPeekKeepsStaleValue(t *testing.T) {
	s, ck := newStore()
	key := cache.PropertiesKey()

	s.Put(key, "props", 5*time.Minute)
	ck.advance(10 * time.Minute)

	if _, ok := s.Get(key); ok {
		t.Fatalf("expected miss for expired entry")
	}
	v, present, fresh := s.Peek(key)
	if !present || fresh {
		t.Fatalf("expected present+stale, got present=%v fresh=%v", present, fresh)
	}
	if v.(string) != "props" {
		t.Fatalf("stale value lost: %v", v)
	}
}

func TestMarkStaleForcesMissButKeepsValue(t *testing.T) {
	s, _ := newStore()
	key := cache.StatsKey(nil)

	s.Put(key, "stats", 2*time.Minute)
	s.MarkStale(key)

	if _, ok := s.Get(key); ok {
		t.Fatalf("expected miss after MarkStale")
	}
	if v, present, fresh := s.Peek(key); !present || fresh || v.(string) != "stats" {
		t.Fatalf("expected stale value intact, got %v present=%v fresh=%v", v, present, fresh)
	}

	// absent key is a no-op
	s.MarkStale(cache.PropertyKey(99))
}

func TestInvalidateSupersedesInFlightFetch(t *testing.T) {
	s, _ := newStore()
	key := cache.ReviewsKey()

	gen := s.Generation(key)
	// an invalidation lands while the fetch is in flight
	s.Invalidate(key)

	if s.PutIfCurrent(key, "superseded", time.Minute, gen) {
		t.Fatalf("superseded fetch must not be cached")
	}
	if _, ok := s.Get(key); ok {
		t.Fatalf("stale data resurrected")
	}

	gen2 := s.Generation(key)
	if !s.PutIfCurrent(key, "current", time.Minute, gen2) {
		t.Fatalf("current fetch should be cached")
	}
	if v, ok := s.Get(key); !ok || v.(string) != "current" {
		t.Fatalf("expected current value, got %v ok=%v", v, ok)
	}
}

func TestInvalidateKind(t *testing.T) {
	s, _ := newStore()
	s.Put(cache.PublicReviewsKey(1), "p1", time.Minute)
	s.Put(cache.PublicReviewsKey(2), "p2", time.Minute)
	s.Put(cache.ReviewsKey(), "all", time.Minute)

	s.InvalidateKind(cache.KindPublicReviews)

	if _, ok := s.Get(cache.PublicReviewsKey(1)); ok {
		t.Fatalf("public slice 1 should be gone")
	}
	if _, ok := s.Get(cache.PublicReviewsKey(2)); ok {
		t.Fatalf("public slice 2 should be gone")
	}
	if _, ok := s.Get(cache.ReviewsKey()); !ok {
		t.Fatalf("other kinds must survive a kind invalidation")
	}
}

func TestReviewCrossInvalidation(t *testing.T) {
	s, _ := newStore()
	propertyID := int64(7)

	s.Put(cache.ReviewKey(42), "review", time.Minute)
	s.Put(cache.ReviewsKey(), "all", time.Minute)
	s.Put(cache.PublicReviewsKey(propertyID), "public", 2*time.Minute)
	s.Put(cache.StatsKey(&propertyID), "stats", 2*time.Minute)
	s.Put(cache.StatsKey(nil), "portfolio", 2*time.Minute)
	s.Put(cache.PublicReviewsKey(8), "other", 2*time.Minute)

	s.Invalidate(cache.ReviewCrossKeys(42, propertyID)...)

	for _, k := range cache.ReviewCrossKeys(42, propertyID) {
		if _, ok := s.Get(k); ok {
			t.Fatalf("key %s should have been cross-invalidated", k)
		}
	}
	if _, ok := s.Get(cache.PublicReviewsKey(8)); !ok {
		t.Fatalf("unrelated property's public slice must survive")
	}
}

func TestWindowPerKind(t *testing.T) {
	if cache.Window(cache.KindProperties) != 5*time.Minute {
		t.Fatalf("properties window")
	}
	if cache.Window(cache.KindStats) != 2*time.Minute {
		t.Fatalf("stats window")
	}
	if cache.Window(cache.KindReviews) != time.Minute {
		t.Fatalf("reviews window")
	}
}
