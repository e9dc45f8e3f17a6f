package types

import "time"

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID        string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username  string    `json:"username" example:"alice"`                          // Unique username used for login.
	Email     string    `json:"email,omitempty" example:"alice@example.com"`       // Optional email address.
	Password  string    `json:"-"`                                                 // Hashed password (never exposed).
	CreatedAt time.Time `json:"created_at"`                                        // Timestamp when the user was created.
	UpdatedAt time.Time `json:"updated_at"`                                        // Timestamp when the user was last updated.
}

// UserSummary is the public projection of a user embedded in reviews and
// comments.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
