package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-item-reviews/internal/types"
)

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`                   // Desired username. Must be unique.
	Password string `json:"password" example:"pw123"`                   // Plaintext password, hashed before storage.
	Email    string `json:"email,omitempty" example:"alice@example.com"` // Optional email address.
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	Token   string          `json:"token" example:"eyJhbGciOiJI..."`
	User    *types.UserAuth `json:"user"`
	Message string          `json:"message" example:"User registered successfully"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token   string `json:"token" example:"eyJhbGciOiJI..."`
	Message string `json:"message" example:"Login successful"`
}

// Claims represents the custom claims encoded in the access token. The token
// is self-contained: its validity window is fixed at issuance and it is not
// renewable without a fresh login.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Username             string `json:"usr,omitempty"` // Custom claim for Username.
	jwt.RegisteredClaims        // Standard claims (ExpiresAt, IssuedAt, Subject, Issuer, ...).
}
