package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/storage"
)

// MockUserStore is a testify mock of storage.UserStore
type MockUserStore struct {
	mock.Mock
}

var _ storage.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*model.AppUser, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*model.AppUser)
	return user, args.Error(1)
}

func (m *MockUserStore) ExistsByRole(ctx context.Context, role model.Role) (bool, error) {
	args := m.Called(ctx, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Save(ctx context.Context, user *model.AppUser) (*model.AppUser, error) {
	args := m.Called(ctx, user)
	saved, _ := args.Get(0).(*model.AppUser)
	return saved, args.Error(1)
}
