package domain

import "context"

// ReviewSource is the remote review/property API. All calls are
// request/response; failures surface as errors, never retried here.
type ReviewSource interface {
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id int64) (Property, error)
	// ListPropertyStats returns stats for one property, or for the whole
	// portfolio when propertyID is nil.
	ListPropertyStats(ctx context.Context, propertyID *int64) ([]PropertyStats, error)
	ListReviews(ctx context.Context) ([]Review, error)
	ListPublicReviews(ctx context.Context, propertyID int64) ([]Review, error)
	SetReviewVisibility(ctx context.Context, reviewID int64, visible bool) (Review, error)
}

// PreferenceStore persists the filter/sort preference slice across sessions.
type PreferenceStore interface {
	Load(ctx context.Context, user string) (Preferences, bool, error)
	Save(ctx context.Context, user string, p Preferences) error
}

// Read models

// PropertyOverview is a property merged with its stats; absent stats show
// as zero/empty rather than propagating nil.
type PropertyOverview struct {
	PropertyID         int64              `json:"propertyId"`
	Name               string             `json:"name"`
	City               *string            `json:"city,omitempty"`
	Country            *string            `json:"country,omitempty"`
	ImageURL           *string            `json:"imageUrl,omitempty"`
	AverageRating      float64            `json:"averageRating"`
	TotalReviews       int                `json:"totalReviews"`
	TrendDelta         float64            `json:"trendDelta"`
	RatingDistribution map[int]int        `json:"ratingDistribution"`
	CategoryAverages   map[string]float64 `json:"categoryAverages"`
	Trends             []TrendPoint       `json:"trendsData"`
}

// PortfolioSummary aggregates stats across every property.
type PortfolioSummary struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type DashboardView struct {
	Properties []PropertyOverview `json:"properties"`
	Summary    PortfolioSummary   `json:"summary"`
}
