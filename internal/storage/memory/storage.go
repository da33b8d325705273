package memory

import (
	"context"
	"sync"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/storage"
)

// Storage is an in-memory implementation of storage.UserStore
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.AppUser
	usernameIndex map[string]model.UserID
	adminID       model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.AppUser),
		usernameIndex: make(map[string]model.UserID),
	}
}

// Ensure Storage implements the interface
var _ storage.UserStore = (*Storage)(nil)

func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.usernameIndex[username]
	return ok, nil
}

func (s *Storage) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, nil
	}
	return copyUser(s.users[id]), nil
}

func (s *Storage) ExistsByRole(ctx context.Context, role model.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if role == model.RoleAdmin {
		return s.adminID != "", nil
	}
	for _, u := range s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) Save(ctx context.Context, user *model.AppUser) (*model.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.usernameIndex[user.Username]; ok && id != user.ID {
		return nil, model.ErrUserAlreadyExists
	}
	if user.Role == model.RoleAdmin && s.adminID != "" && s.adminID != user.ID {
		return nil, model.ErrAdminAlreadyExists
	}

	// Username is immutable, but drop a stale index entry if a caller renamed
	if existing, ok := s.users[user.ID]; ok && existing.Username != user.Username {
		delete(s.usernameIndex, existing.Username)
	}

	stored := copyUser(user)
	s.users[stored.ID] = stored
	s.usernameIndex[stored.Username] = stored.ID
	if stored.Role == model.RoleAdmin {
		s.adminID = stored.ID
	}
	return copyUser(stored), nil
}

// Len returns the number of stored users
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// copyUser isolates stored records from caller mutation
func copyUser(u *model.AppUser) *model.AppUser {
	c := *u
	return &c
}
