package redisad_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/domain"
)

func newStore(t *testing.T) *redisad.PrefStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestPrefStore_RoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	want := domain.Preferences{
		Filters: domain.FilterState{
			Search:     "loft",
			Rating:     &domain.RatingRange{Min: 3, Max: 5},
			Categories: []string{"cleanliness"},
			Channels:   []domain.Channel{domain.ChannelHostaway},
		},
		Sort: domain.SortSpec{Field: domain.SortByRating, Descending: true},
	}
	if err := s.Save(ctx, "manager", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.Load(ctx, "manager")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestPrefStore_LoadMissing(t *testing.T) {
	s := newStore(t)
	_, ok, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for missing preferences")
	}
}

func TestPrefStore_UsersAreIsolated(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := domain.Preferences{Sort: domain.SortSpec{Field: domain.SortByDate, Descending: true}}
	b := domain.Preferences{Sort: domain.SortSpec{Field: domain.SortByGuestName}}
	if err := s.Save(ctx, "a", a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := s.Save(ctx, "b", b); err != nil {
		t.Fatalf("save b: %v", err)
	}

	got, _, _ := s.Load(ctx, "a")
	if got.Sort != a.Sort {
		t.Fatalf("user a got %+v", got)
	}
	got, _, _ = s.Load(ctx, "b")
	if got.Sort != b.Sort {
		t.Fatalf("user b got %+v", got)
	}
}
