package storage

import (
	"context"

	"github.com/nelson/you-are-the-hero/internal/model"
)

// UserStore defines the persistence boundary for AppUser records
type UserStore interface {
	// ExistsByUsername reports whether a user with the username exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// FindByUsername returns the user with the username, or nil if there
	// is none. Absence is not an error.
	FindByUsername(ctx context.Context, username string) (*model.AppUser, error)

	// ExistsByRole reports whether any user holds the role
	ExistsByRole(ctx context.Context, role model.Role) (bool, error)

	// Save inserts the user if new and updates it otherwise, returning the
	// persisted state. Implementations reject a second ADMIN with
	// model.ErrAdminAlreadyExists and a duplicate username on insert with
	// model.ErrUserAlreadyExists.
	Save(ctx context.Context, user *model.AppUser) (*model.AppUser, error)
}
