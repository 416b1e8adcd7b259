package domain

import "time"

// FilterState is a set of independently optional predicates. A zero/nil
// field places no constraint on that dimension.
type FilterState struct {
	Search     string       `json:"search,omitempty"`
	Rating     *RatingRange `json:"rating,omitempty"`
	Categories []string     `json:"categories,omitempty"`
	Channels   []Channel    `json:"channels,omitempty"`
	Dates      *DateRange   `json:"dateRange,omitempty"`
	Displayed  *bool        `json:"displayed,omitempty"`
}

type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange bounds are inclusive; a nil bound leaves that side open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type SortField string

const (
	SortByRating    SortField = "rating"
	SortByDate      SortField = "date"
	SortByGuestName SortField = "guestName"
)

type SortSpec struct {
	Field      SortField `json:"field"`
	Descending bool      `json:"descending"`
}

func DefaultSort() SortSpec { return SortSpec{Field: SortByDate, Descending: true} }

// Preferences is the only state persisted across sessions.
type Preferences struct {
	Filters FilterState `json:"filters"`
	Sort    SortSpec    `json:"sort"`
}

// Validate rejects malformed filter state. The filter engine itself assumes
// well-formed input and never fails on it.
func (f FilterState) Validate() error {
	if f.Rating != nil {
		if f.Rating.Min > f.Rating.Max {
			return &ValidationError{Field: "rating", Reason: "min greater than max"}
		}
		if f.Rating.Min < 1 || f.Rating.Max > 5 {
			return &ValidationError{Field: "rating", Reason: "range must stay within 1..5"}
		}
	}
	if f.Dates != nil && f.Dates.Start != nil && f.Dates.End != nil &&
		f.Dates.Start.After(*f.Dates.End) {
		return &ValidationError{Field: "dateRange", Reason: "start after end"}
	}
	return nil
}

func (s SortSpec) Validate() error {
	switch s.Field {
	case SortByRating, SortByDate, SortByGuestName:
		return nil
	}
	return &ValidationError{Field: "sort", Reason: "unknown sort field " + string(s.Field)}
}
