package models

import "time"

// Role is an authorization role held by a user
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleCandidato Role = "candidato"
)

// AllRoles returns every role
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleModerator, RoleCandidato}
}

// ParseRole converts a raw value into a role
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r.Label() != ""
}

// Label returns the Portuguese display label
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleModerator:
		return "Moderador"
	case RoleCandidato:
		return "Candidato"
	}
	return ""
}

// RoleAssignment grants a role to a user. The (user_id, role) pair is unique.
type RoleAssignment struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasRole reports whether assignments contains role
func HasRole(assignments []RoleAssignment, role Role) bool {
	for _, a := range assignments {
		if a.Role == role {
			return true
		}
	}
	return false
}

// GrantRoleRequest is the body of a role grant
type GrantRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserWithRoles is a profile joined with its role assignments
type UserWithRoles struct {
	Profile
	Roles []RoleAssignment `json:"roles"`
}

// UserFilter narrows the user management listing
type UserFilter struct {
	Search string `form:"search"`
	Role   string `form:"role"`
}
