package domain

type Property struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Address       *string  `json:"address,omitempty"`
	City          *string  `json:"city,omitempty"`
	Country       *string  `json:"country,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	TotalReviews  *int     `json:"totalReviews,omitempty"`
}

// TrendPoint is one month of a chronologically ordered trend series.
type TrendPoint struct {
	Month         string  `json:"month"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// PropertyStats invariant: RatingDistribution counts are non-negative and
// sum to TotalReviews.
type PropertyStats struct {
	PropertyID         int64              `json:"propertyId"`
	PropertyName       string             `json:"propertyName"`
	TotalReviews       int                `json:"totalReviews"`
	AverageRating      float64            `json:"averageRating"`
	RatingDistribution map[int]int        `json:"ratingDistribution"`
	CategoryAverages   map[string]float64 `json:"categoryAverages"`
	Trends             []TrendPoint       `json:"trendsData"`
}
