package request

import (
	"slices"
	"strings"
)

// reservedUsernames name fixed routes under /users, so accounts with these
// names could not be fetched by username.
var reservedUsernames = []string{"me", "register", "login", "logout"}

// IsReservedUsername reports whether name collides with a /users route.
func IsReservedUsername(name string) bool {
	return slices.Contains(reservedUsernames, strings.ToLower(name))
}

// CredentialsRequest is the request body for registering or logging in
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from the username. Passwords are
// taken as sent.
func (r *CredentialsRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// PromoteRequest is the request body for promoting a user to administrator
type PromoteRequest struct {
	Username string `json:"username"`
}
