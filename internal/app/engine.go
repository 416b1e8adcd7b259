package app

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"flex_reviews/internal/cache"
	"flex_reviews/internal/domain"
)

// Engine owns the review data layer: the entity cache, the selection
// tracker and the notification queue. All shared state is mutated only
// through its methods; reads hand out copies of cached slices.
type Engine struct {
	source domain.ReviewSource
	cache  *cache.Store
	prefs  domain.PreferenceStore
	sel    *Selection
	notes  *NotificationQueue
	flight singleflight.Group
	log    zerolog.Logger
}

func NewEngine(src domain.ReviewSource, c *cache.Store, prefs domain.PreferenceStore, notes *NotificationQueue, log zerolog.Logger) *Engine {
	return &Engine{
		source: src,
		cache:  c,
		prefs:  prefs,
		sel:    NewSelection(),
		notes:  notes,
		log:    log,
	}
}

func (e *Engine) Selection() *Selection { return e.sel }

func (e *Engine) Notifications() *NotificationQueue { return e.notes }

// fetchCached is the cache-aside read path: serve a fresh entry, otherwise
// coalesce concurrent misses for the same key into one fetch. A fetch
// failure keeps any prior value, marks it stale and raises an error
// notification; the stale value is returned alongside the error so callers
// can keep rendering it.
func fetchCached[T any](ctx context.Context, e *Engine, key cache.Key, fetch func(context.Context) (T, error)) (T, cache.Freshness, error) {
	if v, ok := e.cache.Get(key); ok {
		return v.(T), cache.Fresh, nil
	}
	gen := e.cache.Generation(key)
	v, err, _ := e.flight.Do(key.String(), func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		e.cache.MarkStale(key)
		e.log.Warn().Str("key", key.String()).Err(err).Msg("fetch failed")
		e.notes.Error("Data refresh failed", err.Error())
		ferr := &domain.FetchError{Key: key.String(), Err: err}
		if prev, present, _ := e.cache.Peek(key); present {
			return prev.(T), cache.Stale, ferr
		}
		var zero T
		return zero, cache.Missing, ferr
	}
	// a concurrent invalidation supersedes this fetch; do not resurrect it
	e.cache.PutIfCurrent(key, v.(T), cache.Window(key.Kind), gen)
	return v.(T), cache.Fresh, nil
}

func (e *Engine) Properties(ctx context.Context) ([]domain.Property, cache.Freshness, error) {
	ps, fr, err := fetchCached(ctx, e, cache.PropertiesKey(), e.source.ListProperties)
	return cloneSlice(ps), fr, err
}

func (e *Engine) Property(ctx context.Context, id int64) (domain.Property, cache.Freshness, error) {
	return fetchCached(ctx, e, cache.PropertyKey(id), func(ctx context.Context) (domain.Property, error) {
		return e.source.GetProperty(ctx, id)
	})
}

// PropertyStats returns one property's stats, or the portfolio collection
// when propertyID is nil.
func (e *Engine) PropertyStats(ctx context.Context, propertyID *int64) ([]domain.PropertyStats, cache.Freshness, error) {
	st, fr, err := fetchCached(ctx, e, cache.StatsKey(propertyID), func(ctx context.Context) ([]domain.PropertyStats, error) {
		return e.source.ListPropertyStats(ctx, propertyID)
	})
	return cloneSlice(st), fr, err
}

// Reviews is the manager view: every review regardless of visibility. Each
// refresh of the collection prunes the selection to its id set.
func (e *Engine) Reviews(ctx context.Context) ([]domain.Review, cache.Freshness, error) {
	rs, fr, err := fetchCached(ctx, e, cache.ReviewsKey(), e.source.ListReviews)
	if fr == cache.Fresh {
		e.sel.Prune(reviewIDs(rs))
	}
	return cloneSlice(rs), fr, err
}

// PublicReviews is the guest-facing slice: only publicly displayed reviews
// of one property.
func (e *Engine) PublicReviews(ctx context.Context, propertyID int64) ([]domain.Review, cache.Freshness, error) {
	rs, fr, err := fetchCached(ctx, e, cache.PublicReviewsKey(propertyID), func(ctx context.Context) ([]domain.Review, error) {
		return e.source.ListPublicReviews(ctx, propertyID)
	})
	return cloneSlice(rs), fr, err
}

// Dashboard merges properties with their stats and derives the portfolio
// summary. Freshness is the lower of the two underlying reads.
func (e *Engine) Dashboard(ctx context.Context) (domain.DashboardView, cache.Freshness, error) {
	props, pfr, perr := e.Properties(ctx)
	stats, sfr, serr := e.PropertyStats(ctx, nil)
	byID := make(map[int64]*domain.PropertyStats, len(stats))
	for i := range stats {
		byID[stats[i].PropertyID] = &stats[i]
	}
	view := domain.DashboardView{
		Properties: make([]domain.PropertyOverview, 0, len(props)),
		Summary:    PortfolioSummary(stats),
	}
	for _, p := range props {
		view.Properties = append(view.Properties, MergePropertyWithStats(p, byID[p.ID]))
	}
	fr := pfr
	if sfr < fr {
		fr = sfr
	}
	err := perr
	if err == nil {
		err = serr
	}
	return view, fr, err
}

// Refresh drops a whole entity-kind family; the next read re-fetches.
func (e *Engine) Refresh(kind cache.Kind) {
	e.cache.InvalidateKind(kind)
}

// LoadPreferences returns the persisted filter/sort slice, or defaults when
// none were saved yet.
func (e *Engine) LoadPreferences(ctx context.Context, user string) (domain.Preferences, error) {
	p, ok, err := e.prefs.Load(ctx, user)
	if err != nil {
		return domain.Preferences{Sort: domain.DefaultSort()}, err
	}
	if !ok {
		return domain.Preferences{Sort: domain.DefaultSort()}, nil
	}
	return p, nil
}

func (e *Engine) SavePreferences(ctx context.Context, user string, p domain.Preferences) error {
	if err := p.Filters.Validate(); err != nil {
		return err
	}
	if err := p.Sort.Validate(); err != nil {
		return err
	}
	return e.prefs.Save(ctx, user, p)
}

// WarmUp prefetches the main collections and each property's stats and
// public slice with bounded concurrency. Failures are already surfaced as
// notifications by the read path; warm-up itself is best-effort.
func (e *Engine) WarmUp(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 4
	}
	props, _, err := e.Properties(ctx)
	if err != nil {
		return
	}
	_, _, _ = e.Reviews(ctx)
	_, _, _ = e.PropertyStats(ctx, nil)

	sem := semaphore.NewWeighted(int64(workers))
	for _, p := range props {
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		go func(id int64) {
			defer sem.Release(1)
			_, _, _ = e.PropertyStats(ctx, &id)
			_, _, _ = e.PublicReviews(ctx, id)
		}(p.ID)
	}
	// drain so callers may rely on a warm cache once WarmUp returns
	_ = sem.Acquire(ctx, int64(workers))
}

func reviewIDs(rs []domain.Review) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

// cloneSlice copies the cached backing array so callers cannot mutate the
// cached value through the returned slice.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
