// Package user owns the account rules: registration, principal lookup and
// promotion of the single administrator.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nelson/you-are-the-hero/internal/dependencies/clock"
	"github.com/nelson/you-are-the-hero/internal/dependencies/hasher"
	"github.com/nelson/you-are-the-hero/internal/dependencies/random"
	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/storage"
)

// Service applies account rules over a UserStore. It holds no mutable
// state and is safe to share.
//
// Check-then-save sequences are not atomic here; the store's uniqueness
// constraints settle races between concurrent callers.
type Service struct {
	store  storage.UserStore
	hasher hasher.PasswordHasher
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new user Service
func New(store storage.UserStore, h hasher.PasswordHasher, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		hasher: h,
		clock:  clk,
		random: rnd,
		logger: logger,
	}
}

// Register creates a PLAYER account. It fails with
// model.ErrUserAlreadyExists, without saving, if the username is taken.
func (s *Service) Register(ctx context.Context, req model.AuthRequest) (*model.AppUser, error) {
	exists, err := s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		s.logger.Warn("registration rejected: username taken", slog.String("username", req.Username))
		return nil, model.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Encode(req.Password)
	if err != nil {
		return nil, fmt.Errorf("encode password: %w", err)
	}

	now := s.clock.Now()
	user := &model.AppUser{
		ID:        model.UserID(s.random.ULID(now).String()),
		Username:  req.Username,
		Password:  hash,
		Role:      model.RolePlayer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(saved.ID)),
		slog.String("username", saved.Username),
	)
	return saved, nil
}

// ResolvePrincipal loads the authentication view of a user. A missing
// user is reported as model.ErrUserNotFound.
func (s *Service) ResolvePrincipal(ctx context.Context, username string) (*model.Principal, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
	}
	return model.PrincipalFromUser(user), nil
}

// FindByUsername returns the stored user as is; nil means no such user.
// Unlike ResolvePrincipal, absence is not an error.
func (s *Service) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	return s.store.FindByUsername(ctx, username)
}

// PromoteToAdmin gives the named user the ADMIN role.
//
// The single-admin check runs first, so while an admin exists the call
// fails with model.ErrAdminAlreadyExists even for unknown usernames.
func (s *Service) PromoteToAdmin(ctx context.Context, ref model.UserRef) (*model.AppUser, error) {
	present, err := s.IsAdminPresent(ctx)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if present {
		s.logger.Warn("promotion rejected: admin already exists", slog.String("username", ref.Username))
		return nil, model.ErrAdminAlreadyExists
	}

	user, err := s.store.FindByUsername(ctx, ref.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUserNotFound, ref.Username)
	}

	user.Role = model.RoleAdmin
	user.UpdatedAt = s.clock.Now()

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("user promoted to admin",
		slog.String("user_id", string(saved.ID)),
		slog.String("username", saved.Username),
	)
	return saved, nil
}

// IsAdminPresent reports whether any user holds the ADMIN role
func (s *Service) IsAdminPresent(ctx context.Context) (bool, error) {
	return s.store.ExistsByRole(ctx, model.RoleAdmin)
}
