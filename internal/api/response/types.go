package response

import (
	"time"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
)

// User represents a stored account in API responses. The password hash is
// never exposed.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFromModel converts a model.AppUser to a response User
func UserFromModel(u *model.AppUser) User {
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Principal is the authenticated caller as seen by the API
type Principal struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
}

// PrincipalFromModel converts a model.Principal
func PrincipalFromModel(p *model.Principal) Principal {
	return Principal{
		UserID:      string(p.UserID),
		Username:    p.Username,
		Role:        string(p.Role),
		Authorities: p.Authorities,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         Principal `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         PrincipalFromModel(&s.Principal),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// AdminStatus reports whether the single administrator slot is taken
type AdminStatus struct {
	AdminPresent bool `json:"admin_present"`
}

// Health is the body of the health endpoint
type Health struct {
	Status string `json:"status"`
}
