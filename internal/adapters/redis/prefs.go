package redisad

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

// PrefStore persists the per-user filter/sort preference slice. It is the
// only state that survives a restart; the entity cache and selection never
// touch it.
type PrefStore struct{ c *redis.Client }

func New(addr, pass string, db int) *PrefStore {
	return &PrefStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *PrefStore) Ping(ctx context.Context) error {
	return s.c.Ping(ctx).Err()
}

func (s *PrefStore) Load(ctx context.Context, user string) (domain.Preferences, bool, error) {
	v, err := s.c.Get(ctx, key(user)).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("prefs", "miss")
		return domain.Preferences{}, false, nil
	}
	if err != nil {
		return domain.Preferences{}, false, err
	}
	observability.ObserveCache("prefs", "hit")
	var p domain.Preferences
	if err := json.Unmarshal(v, &p); err != nil {
		return domain.Preferences{}, false, err
	}
	return p, true, nil
}

func (s *PrefStore) Save(ctx context.Context, user string, p domain.Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	observability.ObserveCache("prefs", "set")
	// preferences have no TTL; they live until overwritten
	return s.c.Set(ctx, key(user), b, 0).Err()
}

func key(user string) string { return "prefs:" + user }
