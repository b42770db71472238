package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignInResponse returns the issued token and the signed-in principal.
type SignInResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo describes the authenticated principal in responses.
type UserInfo struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Info projects the account into its public shape.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Role: u.Role}
}

// JWTClaims represents the JWT payload for access tokens. RegisteredClaims.ID
// is the session id and keys the Redis session record.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

// SessionID returns the token's session id.
func (c *JWTClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
