package domain

import (
	"time"
)

// User represents a registered account. Username is the authentication key;
// both username and email are unique.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair holds an access and refresh token pair. Tokens are transported as
// cookies and never serialized into response bodies.
type TokenPair struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}
