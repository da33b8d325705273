package model

import "slices"

// Principal is the authentication layer's view of an AppUser.
// It is derived on demand and never stored.
type Principal struct {
	UserID      UserID
	Username    string
	Password    string // stored hash, copied verbatim
	Role        Role
	Authorities []string
}

// PrincipalFromUser projects a user onto a Principal
func PrincipalFromUser(u *AppUser) *Principal {
	return &Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Password:    u.Password,
		Role:        u.Role,
		Authorities: []string{u.Role.Authority()},
	}
}

// HasAuthority reports whether the principal was granted the authority
func (p *Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}
