package domain

import "time"

// Channel identifies where a review originated.
type Channel string

const (
	ChannelHostaway Channel = "hostaway"
	ChannelGoogle   Channel = "google"
	ChannelManual   Channel = "manual"
)

// ReviewCategory is a single per-aspect score (cleanliness, communication, ...).
type ReviewCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

type Review struct {
	ID                int64            `json:"id"`
	PropertyID        int64            `json:"propertyId"`
	Type              string           `json:"type,omitempty"`   // guest-to-host | host-to-guest
	Status            string           `json:"status,omitempty"` // published | draft | archived
	Rating            *float64         `json:"rating"`           // 1..5; nil when the guest left no score
	PublicReview      string           `json:"publicReview"`
	Categories        []ReviewCategory `json:"reviewCategory,omitempty"`
	SubmittedAt       time.Time        `json:"submittedAt"`
	GuestName         string           `json:"guestName"`
	Channel           Channel          `json:"channel"`
	DisplayedPublicly bool             `json:"isDisplayedPublicly"`
}
