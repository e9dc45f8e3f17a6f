package reviews

// CreateReviewRequest represents the expected JSON body for posting a review.
type CreateReviewRequest struct {
	Text   string `json:"text" example:"Great phone, battery lasts two days."`
	Rating int    `json:"rating" example:"5"` // 1..5
}

// UpdateReviewRequest represents the expected JSON body for updating a
// review. Absent fields keep their stored value; at least one must be set.
type UpdateReviewRequest struct {
	Text   *string `json:"text,omitempty"`
	Rating *int    `json:"rating,omitempty"`
}

// MessageResponse is the envelope for message-only success payloads.
type MessageResponse struct {
	Message string `json:"message" example:"Review deleted successfully"`
}
