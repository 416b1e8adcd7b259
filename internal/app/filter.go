package app

import (
	"sort"
	"strings"

	"flex_reviews/internal/domain"
)

// Apply filters and sorts a review collection. Pure: the input slice is
// never mutated, and the result is always a subset of the input. Predicates
// combine with AND; a zero/nil filter field leaves its dimension
// unconstrained. Sorting is stable, so equal keys keep their input order.
func Apply(reviews []domain.Review, f domain.FilterState, s domain.SortSpec) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	sortReviews(out, s)
	return out
}

func matches(r domain.Review, f domain.FilterState) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.GuestName), q) &&
			!strings.Contains(strings.ToLower(r.PublicReview), q) {
			return false
		}
	}
	if f.Rating != nil {
		// an unrated review fails any rating-range filter
		if r.Rating == nil || *r.Rating < f.Rating.Min || *r.Rating > f.Rating.Max {
			return false
		}
	}
	if len(f.Categories) > 0 && !hasAnyCategory(r, f.Categories) {
		return false
	}
	if len(f.Channels) > 0 && !containsChannel(f.Channels, r.Channel) {
		return false
	}
	if f.Dates != nil {
		if f.Dates.Start != nil && r.SubmittedAt.Before(*f.Dates.Start) {
			return false
		}
		if f.Dates.End != nil && r.SubmittedAt.After(*f.Dates.End) {
			return false
		}
	}
	if f.Displayed != nil && r.DisplayedPublicly != *f.Displayed {
		return false
	}
	return true
}

// hasAnyCategory is OR within the dimension: one matching category name is
// enough.
func hasAnyCategory(r domain.Review, names []string) bool {
	for _, c := range r.Categories {
		for _, n := range names {
			if c.Category == n {
				return true
			}
		}
	}
	return false
}

func containsChannel(cs []domain.Channel, c domain.Channel) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}

func sortReviews(rs []domain.Review, s domain.SortSpec) {
	sort.SliceStable(rs, func(i, j int) bool {
		c := compareReviews(rs[i], rs[j], s.Field)
		if s.Descending {
			return c > 0
		}
		return c < 0
	})
}

func compareReviews(a, b domain.Review, field domain.SortField) int {
	switch field {
	case domain.SortByRating:
		return compareFloat(ratingOrLowest(a), ratingOrLowest(b))
	case domain.SortByGuestName:
		return strings.Compare(strings.ToLower(a.GuestName), strings.ToLower(b.GuestName))
	default: // date
		return a.SubmittedAt.Compare(b.SubmittedAt)
	}
}

// ratingOrLowest sorts absent ratings below every real 1..5 score.
func ratingOrLowest(r domain.Review) float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
