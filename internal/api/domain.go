package api

import "time"

// Response is the generic JSON envelope for simple success and error
// messages.
type Response struct {
	Success bool   `json:"success" example:"true"`                           // Indicates if the operation was successful.
	Message string `json:"message,omitempty" example:"Operation successful"` // Optional success message.
	Error   string `json:"error,omitempty" example:"Resource not found"`     // Optional error message.
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status" example:"UP"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-02T15:04:05Z"`
}
