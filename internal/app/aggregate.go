package app

import (
	"math"

	"flex_reviews/internal/domain"
)

// Aggregations are pure: inputs are never mutated and empty input yields
// zero/empty defaults.

// RatingDistribution buckets reviews by integral rating 1..5. Unrated
// reviews are excluded from every bucket; all five buckets are always
// present.
func RatingDistribution(reviews []domain.Review) map[int]int {
	dist := emptyDistribution()
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		b := int(math.Round(*r.Rating))
		if b >= 1 && b <= 5 {
			dist[b]++
		}
	}
	return dist
}

// AverageRating is the mean of present ratings, 0 when no review is rated.
func AverageRating(reviews []domain.Review) float64 {
	var sum float64
	var n int
	for _, r := range reviews {
		if r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CategoryAverages means each category's scores across every review that
// carries that category.
func CategoryAverages(reviews []domain.Review) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range reviews {
		for _, c := range r.Categories {
			sums[c.Category] += c.Rating
			counts[c.Category]++
		}
	}
	out := make(map[string]float64, len(sums))
	for name, sum := range sums {
		out[name] = sum / float64(counts[name])
	}
	return out
}

// TrendDelta is the average-rating difference between the last two points
// of a chronologically ordered series, 0 with fewer than two points.
func TrendDelta(trends []domain.TrendPoint) float64 {
	if len(trends) < 2 {
		return 0
	}
	return trends[len(trends)-1].AverageRating - trends[len(trends)-2].AverageRating
}

// MergePropertyWithStats joins a property with its stats, right-biased:
// missing statistics become zero/empty values instead of propagating
// absence. The stats maps are copied, never aliased.
func MergePropertyWithStats(p domain.Property, st *domain.PropertyStats) domain.PropertyOverview {
	out := domain.PropertyOverview{
		PropertyID:         p.ID,
		Name:               p.Name,
		City:               p.City,
		Country:            p.Country,
		ImageURL:           p.ImageURL,
		RatingDistribution: emptyDistribution(),
		CategoryAverages:   map[string]float64{},
		Trends:             []domain.TrendPoint{},
	}
	if st == nil {
		return out
	}
	out.AverageRating = st.AverageRating
	out.TotalReviews = st.TotalReviews
	out.TrendDelta = TrendDelta(st.Trends)
	for b, n := range st.RatingDistribution {
		if b >= 1 && b <= 5 {
			out.RatingDistribution[b] = n
		}
	}
	for name, avg := range st.CategoryAverages {
		out.CategoryAverages[name] = avg
	}
	out.Trends = append(out.Trends, st.Trends...)
	return out
}

// PortfolioSummary aggregates stats across every property: summed review
// counts, the mean of per-property averages, and an element-wise merged
// distribution.
func PortfolioSummary(stats []domain.PropertyStats) domain.PortfolioSummary {
	sum := domain.PortfolioSummary{RatingDistribution: emptyDistribution()}
	if len(stats) == 0 {
		return sum
	}
	var ratingTotal float64
	for _, st := range stats {
		sum.TotalReviews += st.TotalReviews
		ratingTotal += st.AverageRating
		for b, n := range st.RatingDistribution {
			if b >= 1 && b <= 5 {
				sum.RatingDistribution[b] += n
			}
		}
	}
	sum.AverageRating = ratingTotal / float64(len(stats))
	return sum
}

func emptyDistribution() map[int]int {
	return map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}
