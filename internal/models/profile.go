package models

import (
	"strings"
	"time"
)

// Profile is the user-facing identity record created at sign-up
type Profile struct {
	ID        string    `bson:"_id" json:"id"`
	FullName  *string   `bson:"full_name" json:"full_name"`
	Email     *string   `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName returns the full name, or empty when unset
func (p *Profile) DisplayName() string {
	if p.FullName == nil {
		return ""
	}
	return *p.FullName
}

// UpdateProfileRequest is the body of a display name change. Email cannot
// be changed from this surface.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

// Normalize trims the display name
func (r *UpdateProfileRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
}
