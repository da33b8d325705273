package model

import (
	"fmt"
	"time"
)

// UserID uniquely identifies an account across the system
type UserID string

// Role is the access level of an account
type Role string

const (
	RolePlayer Role = "PLAYER" // Initial role for every registered account
	RoleAdmin  Role = "ADMIN"  // At most one account holds this role
)

// ParseRole converts a string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlayer, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Authority returns the authority string granted by the role
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// AppUser is a persisted account record
type AppUser struct {
	ID        UserID
	Username  string // unique login name (immutable)
	Password  string // hashed credential, never plaintext
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user holds the admin role
func (u *AppUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthRequest carries registration credentials
type AuthRequest struct {
	Username string
	Password string // plaintext, hashed before it is stored
}

// UserRef names a user by username
type UserRef struct {
	Username string
}
