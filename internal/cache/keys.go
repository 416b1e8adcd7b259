package cache

import (
	"strconv"
	"time"
)

type Kind string

const (
	KindProperties    Kind = "properties"     // property list
	KindProperty      Kind = "property"       // property detail
	KindStats         Kind = "stats"          // property statistics
	KindReviews       Kind = "reviews"        // manager review list
	KindReview        Kind = "review"         // single review entity
	KindPublicReviews Kind = "public-reviews" // per-property public slice
)

// Kinds lists every cacheable kind, in the order the refresh endpoint
// accepts them.
var Kinds = []Kind{KindProperties, KindProperty, KindStats, KindReviews, KindReview, KindPublicReviews}

// Window is the staleness window per entity kind.
func Window(k Kind) time.Duration {
	switch k {
	case KindProperties, KindProperty:
		return 5 * time.Minute
	case KindStats, KindPublicReviews:
		return 2 * time.Minute
	default:
		return time.Minute
	}
}

// CollectionID marks a whole-collection key rather than a single entity.
const CollectionID = "collection"

// Key is a structured cache key: entity kind, entity id (or CollectionID),
// and an optional sub-scope such as the owning property.
type Key struct {
	Kind  Kind
	ID    string
	Scope string
}

func (k Key) String() string {
	s := string(k.Kind) + ":" + k.ID
	if k.Scope != "" {
		s += ":" + k.Scope
	}
	return s
}

func PropertiesKey() Key {
	return Key{Kind: KindProperties, ID: CollectionID}
}

func PropertyKey(id int64) Key {
	return Key{Kind: KindProperty, ID: strconv.FormatInt(id, 10)}
}

// StatsKey addresses one property's statistics, or the portfolio collection
// when propertyID is nil.
func StatsKey(propertyID *int64) Key {
	if propertyID == nil {
		return Key{Kind: KindStats, ID: CollectionID}
	}
	return Key{Kind: KindStats, ID: strconv.FormatInt(*propertyID, 10)}
}

func ReviewsKey() Key {
	return Key{Kind: KindReviews, ID: CollectionID}
}

func ReviewKey(id int64) Key {
	return Key{Kind: KindReview, ID: strconv.FormatInt(id, 10)}
}

func PublicReviewsKey(propertyID int64) Key {
	return Key{Kind: KindPublicReviews, ID: CollectionID, Scope: strconv.FormatInt(propertyID, 10)}
}

// ReviewCrossKeys lists every key that embeds data of the given review:
// the entity itself, the manager review collection, the property's public
// slice, and both stats keys. Toggling a review's visibility must
// invalidate all of them.
func ReviewCrossKeys(reviewID, propertyID int64) []Key {
	return []Key{
		ReviewKey(reviewID),
		ReviewsKey(),
		PublicReviewsKey(propertyID),
		StatsKey(&propertyID),
		StatsKey(nil),
	}
}
