package app

import (
	"context"
	"fmt"
	"sync"

	"flex_reviews/internal/cache"
	"flex_reviews/internal/domain"
)

// ToggleVisibility flips a review's public-visibility flag against the
// remote source. On success the returned review is written through to the
// cache, every collection embedding it is invalidated, and a success
// notification names the new state. On failure the cache is left untouched
// and exactly one error notification carries the failure message; callers
// must not assume the toggle applied until this returns nil.
//
// Two in-flight toggles on the same review id are not ordered here: the
// last response to arrive wins. Callers that care disable the action while
// one is outstanding.
func (e *Engine) ToggleVisibility(ctx context.Context, reviewID int64, visible bool) (domain.Review, error) {
	updated, err := e.toggleOne(ctx, reviewID, visible)
	if err != nil {
		e.notes.Error("Update failed", err.Error())
		return domain.Review{}, err
	}
	e.notes.Success("Review updated", fmt.Sprintf("Review %s for public display", enabledWord(updated.DisplayedPublicly)))
	return updated, nil
}

// ToggleVisibilityBulk applies the toggle to every currently selected
// review, a few at a time. Per-review notifications are collapsed into one
// summary; ids that failed are returned.
func (e *Engine) ToggleVisibilityBulk(ctx context.Context, visible bool) (applied int, failed []int64) {
	ids := e.sel.IDs()
	if len(ids) == 0 {
		return 0, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, 4)
	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(id int64) {
			defer wg.Done()
			defer func() { <-sem }()
			_, err := e.toggleOne(ctx, id, visible)
			mu.Lock()
			if err != nil {
				failed = append(failed, id)
			} else {
				applied++
			}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	switch {
	case len(failed) == 0:
		e.notes.Success("Reviews updated", fmt.Sprintf("%d reviews %s for public display", applied, enabledWord(visible)))
	case applied == 0:
		e.notes.Error("Bulk update failed", fmt.Sprintf("none of %d reviews could be updated", len(ids)))
	default:
		e.notes.Warning("Bulk update incomplete", fmt.Sprintf("%d updated, %d failed", applied, len(failed)))
	}
	return applied, failed
}

func (e *Engine) toggleOne(ctx context.Context, reviewID int64, visible bool) (domain.Review, error) {
	updated, err := e.source.SetReviewVisibility(ctx, reviewID, visible)
	if err != nil {
		e.log.Warn().Int64("review", reviewID).Err(err).Msg("visibility toggle rejected")
		return domain.Review{}, &domain.MutationError{ReviewID: reviewID, Err: err}
	}
	// invalidate first, then write the fresh entity through
	e.cache.Invalidate(cache.ReviewCrossKeys(updated.ID, updated.PropertyID)...)
	e.cache.Put(cache.ReviewKey(updated.ID), updated, cache.Window(cache.KindReview))
	e.log.Info().
		Int64("review", updated.ID).
		Int64("property", updated.PropertyID).
		Bool("displayed", updated.DisplayedPublicly).
		Msg("review visibility updated")
	return updated, nil
}

func enabledWord(visible bool) string {
	if visible {
		return "enabled"
	}
	return "disabled"
}
