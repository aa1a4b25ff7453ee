package models

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

// Account holds credentials for a user
type Account struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Session is an authenticated identity bound to an opaque bearer token
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SignUpRequest is the body of an account registration
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// SignInRequest is the body of a sign-in
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionResponse is returned by sign-in and session lookups
type SessionResponse struct {
	Session  *Session `json:"session"`
	Profile  *Profile `json:"profile,omitempty"`
	Roles    []Role   `json:"roles"`
	Redirect string   `json:"redirect,omitempty"`
}
