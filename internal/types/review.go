package types

import (
	"time"

	"github.com/google/uuid"
)

// Review is a rated write-up a user posts on an item. UserID records the
// owner at creation time; ownership never transfers.
type Review struct {
	ID        uuid.UUID    `json:"id"`
	Text      string       `json:"text"`
	Rating    int          `json:"rating"` // 1..5
	UserID    uuid.UUID    `json:"user_id"`
	ItemID    uuid.UUID    `json:"item_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	User      *UserSummary `json:"user,omitempty"` // Author projection, present on read endpoints.
	Item      *ItemSummary `json:"item,omitempty"` // Item projection, present on read endpoints.
}

// ReviewSummary is the projection of a review embedded in comment payloads.
type ReviewSummary struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name,omitempty"`
}

// CreateReviewParams carries the validated input for posting a review.
type CreateReviewParams struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// UpdateReviewParams uses pointers so callers can update text, rating or
// both. At least one field must be set.
type UpdateReviewParams struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}
