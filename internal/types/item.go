package types

import (
	"time"

	"github.com/google/uuid"
)

// Item is a reviewable thing (a place, product, ...). Items are seeded out of
// band and browsable read-only through the API.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemSummary is the projection of an item embedded in review payloads.
type ItemSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
