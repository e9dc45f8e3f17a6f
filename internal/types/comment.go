package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply a user posts on a review. UserID records the owner at
// creation time; ownership never transfers.
type Comment struct {
	ID        uuid.UUID      `json:"id"`
	Text      string         `json:"text"`
	UserID    uuid.UUID      `json:"user_id"`
	ReviewID  uuid.UUID      `json:"review_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	User      *UserSummary   `json:"user,omitempty"`   // Author projection, present on read endpoints.
	Review    *ReviewSummary `json:"review,omitempty"` // Parent review projection, present on /comments/me.
}
