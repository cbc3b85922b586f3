package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Hashed password, never exposed.
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the identity snapshot attached to a validated token.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID               string `json:"uid"`
	Username             string `json:"usr,omitempty"`
	Email                string `json:"eml"`
	Role                 string `json:"rol,omitempty"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, Issuer, Audience, etc.
}
