package app_test

import (
	"math"
	"reflect"
	"testing"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func TestRatingDistribution(t *testing.T) {
	got := app.RatingDistribution(sampleReviews())
	want := map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// bucket counts sum to the count of rated reviews
	sum := 0
	for _, n := range got {
		sum += n
	}
	if sum != 2 {
		t.Fatalf("bucket sum %d, want 2", sum)
	}
}

func TestRatingDistribution_Empty(t *testing.T) {
	got := app.RatingDistribution(nil)
	want := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAverageRating(t *testing.T) {
	if got := app.AverageRating(sampleReviews()); got != 4 {
		t.Fatalf("got %v want 4", got)
	}
	if got := app.AverageRating(nil); got != 0 {
		t.Fatalf("empty input: got %v want 0", got)
	}
	if got := app.AverageRating([]domain.Review{{ID: 1}}); got != 0 {
		t.Fatalf("only unrated: got %v want 0", got)
	}
}

func TestCategoryAverages(t *testing.T) {
	rs := []domain.Review{
		{ID: 1, Categories: []domain.ReviewCategory{{Category: "cleanliness", Rating: 5}, {Category: "location", Rating: 4}}},
		{ID: 2, Categories: []domain.ReviewCategory{{Category: "cleanliness", Rating: 3}}},
		{ID: 3},
	}
	got := app.CategoryAverages(rs)
	if got["cleanliness"] != 4 || got["location"] != 4 {
		t.Fatalf("got %v", got)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected categories: %v", got)
	}
	if out := app.CategoryAverages(nil); len(out) != 0 {
		t.Fatalf("empty input: %v", out)
	}
}

func TestTrendDelta(t *testing.T) {
	trends := []domain.TrendPoint{
		{Month: "Mar 25", AverageRating: 4.0},
		{Month: "Apr 25", AverageRating: 4.5},
		{Month: "May 25", AverageRating: 4.2},
	}
	if got := app.TrendDelta(trends); math.Abs(got-(-0.3)) > 1e-9 {
		t.Fatalf("got %v want -0.3", got)
	}
	if got := app.TrendDelta(trends[:1]); got != 0 {
		t.Fatalf("single point: got %v want 0", got)
	}
	if got := app.TrendDelta(nil); got != 0 {
		t.Fatalf("empty: got %v want 0", got)
	}
}

func TestMergePropertyWithStats(t *testing.T) {
	p := domain.Property{ID: 7, Name: "Shoreditch Loft", City: ptr("London")}

	// no stats: zero/empty defaults, never nil maps
	merged := app.MergePropertyWithStats(p, nil)
	if merged.PropertyID != 7 || merged.Name != "Shoreditch Loft" {
		t.Fatalf("identity lost: %+v", merged)
	}
	if merged.AverageRating != 0 || merged.TotalReviews != 0 {
		t.Fatalf("expected zero stats, got %+v", merged)
	}
	if len(merged.RatingDistribution) != 5 || merged.CategoryAverages == nil || merged.Trends == nil {
		t.Fatalf("expected empty defaults, got %+v", merged)
	}

	st := &domain.PropertyStats{
		PropertyID:         7,
		AverageRating:      4.4,
		TotalReviews:       12,
		RatingDistribution: map[int]int{4: 5, 5: 7},
		CategoryAverages:   map[string]float64{"cleanliness": 4.8},
	}
	merged = app.MergePropertyWithStats(p, st)
	if merged.AverageRating != 4.4 || merged.TotalReviews != 12 {
		t.Fatalf("stats not merged: %+v", merged)
	}
	if merged.RatingDistribution[5] != 7 || merged.RatingDistribution[1] != 0 {
		t.Fatalf("distribution: %v", merged.RatingDistribution)
	}

	// merged maps must not alias the input
	merged.RatingDistribution[5] = 99
	merged.CategoryAverages["cleanliness"] = 0
	if st.RatingDistribution[5] != 7 || st.CategoryAverages["cleanliness"] != 4.8 {
		t.Fatalf("input stats mutated through merge result")
	}
}

func TestPortfolioSummary(t *testing.T) {
	stats := []domain.PropertyStats{
		{TotalReviews: 10, AverageRating: 4.0, RatingDistribution: map[int]int{5: 6, 4: 4}},
		{TotalReviews: 6, AverageRating: 3.0, RatingDistribution: map[int]int{3: 6}},
	}
	got := app.PortfolioSummary(stats)
	if got.TotalReviews != 16 {
		t.Fatalf("total: %d", got.TotalReviews)
	}
	if got.AverageRating != 3.5 {
		t.Fatalf("average: %v", got.AverageRating)
	}
	if got.RatingDistribution[5] != 6 || got.RatingDistribution[3] != 6 || got.RatingDistribution[1] != 0 {
		t.Fatalf("distribution: %v", got.RatingDistribution)
	}

	empty := app.PortfolioSummary(nil)
	if empty.TotalReviews != 0 || empty.AverageRating != 0 || len(empty.RatingDistribution) != 5 {
		t.Fatalf("empty summary: %+v", empty)
	}
}
