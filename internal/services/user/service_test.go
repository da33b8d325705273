package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nelson/you-are-the-hero/internal/dependencies/mocks"
	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/testutil"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// ServiceSuite drives the service against testify mocks so each test can
// assert exactly which store calls were made.
type ServiceSuite struct {
	suite.Suite
	store   *mocks.MockUserStore
	hasher  *mocks.MockHasher
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = new(mocks.MockUserStore)
	s.hasher = new(mocks.MockHasher)
	s.clock = mocks.NewMockClock(now)
	s.service = New(s.store, s.hasher, s.clock, mocks.NewMockRandom(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
	s.hasher.AssertExpectations(s.T())
}

func jeanNeige() *model.AppUser {
	return &model.AppUser{
		ID:       "u1",
		Username: "jean neige",
		Password: "Ygrid",
		Role:     model.RolePlayer,
	}
}

// Register tests

func (s *ServiceSuite) TestRegisterSavesOnce() {
	s.store.On("ExistsByUsername", mock.Anything, "my-username").Return(false, nil)
	s.hasher.On("Encode", "my-password").Return("toto", nil)
	s.store.On("Save", mock.Anything, mock.AnythingOfType("*model.AppUser")).Return(&model.AppUser{}, nil)

	result, err := s.service.Register(s.ctx, model.AuthRequest{Username: "my-username", Password: "my-password"})
	s.Require().NoError(err)

	s.NotNil(result)
	s.store.AssertNumberOfCalls(s.T(), "Save", 1)
}

func (s *ServiceSuite) TestRegisterBuildsPlayerWithHashedPassword() {
	s.store.On("ExistsByUsername", mock.Anything, "my-username").Return(false, nil)
	s.hasher.On("Encode", "my-password").Return("toto", nil)
	s.store.On("Save", mock.Anything, mock.MatchedBy(func(u *model.AppUser) bool {
		return u.Username == "my-username" &&
			u.Password == "toto" &&
			u.Role == model.RolePlayer &&
			u.ID != "" &&
			u.CreatedAt.Equal(now)
	})).Return(&model.AppUser{Username: "my-username"}, nil)

	result, err := s.service.Register(s.ctx, model.AuthRequest{Username: "my-username", Password: "my-password"})
	s.Require().NoError(err)
	s.Equal("my-username", result.Username)
}

func (s *ServiceSuite) TestRegisterExistingUsernameFails() {
	s.store.On("ExistsByUsername", mock.Anything, "my-username").Return(true, nil)

	_, err := s.service.Register(s.ctx, model.AuthRequest{Username: "my-username", Password: "my-password"})
	s.ErrorIs(err, model.ErrUserAlreadyExists)

	s.store.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
	s.hasher.AssertNotCalled(s.T(), "Encode", mock.Anything)
}

func (s *ServiceSuite) TestRegisterPropagatesHasherError() {
	hashErr := errors.New("hash failed")
	s.store.On("ExistsByUsername", mock.Anything, "my-username").Return(false, nil)
	s.hasher.On("Encode", "my-password").Return("", hashErr)

	_, err := s.service.Register(s.ctx, model.AuthRequest{Username: "my-username", Password: "my-password"})
	s.ErrorIs(err, hashErr)
	s.store.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestRegisterPropagatesStoreError() {
	storeErr := errors.New("connection refused")
	s.store.On("ExistsByUsername", mock.Anything, "my-username").Return(false, storeErr)

	_, err := s.service.Register(s.ctx, model.AuthRequest{Username: "my-username", Password: "my-password"})
	s.ErrorIs(err, storeErr)
}

// ResolvePrincipal tests

func (s *ServiceSuite) TestResolvePrincipalCopiesCredentials() {
	s.store.On("FindByUsername", mock.Anything, "jean neige").Return(jeanNeige(), nil)

	principal, err := s.service.ResolvePrincipal(s.ctx, "jean neige")
	s.Require().NoError(err)

	s.Require().NotNil(principal)
	s.Equal("jean neige", principal.Username)
	s.Equal("Ygrid", principal.Password)
	s.True(principal.HasAuthority("ROLE_PLAYER"))
}

func (s *ServiceSuite) TestResolvePrincipalUnknownUserFails() {
	s.store.On("FindByUsername", mock.Anything, "unknown-username").Return(nil, nil)

	_, err := s.service.ResolvePrincipal(s.ctx, "unknown-username")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// FindByUsername tests

func (s *ServiceSuite) TestFindByUsernameReturnsStoredUser() {
	s.store.On("FindByUsername", mock.Anything, "jean neige").Return(jeanNeige(), nil)

	user, err := s.service.FindByUsername(s.ctx, "jean neige")
	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.Equal("jean neige", user.Username)
}

func (s *ServiceSuite) TestFindByUsernameAbsentIsNotAnError() {
	s.store.On("FindByUsername", mock.Anything, "unknown-username").Return(nil, nil)

	user, err := s.service.FindByUsername(s.ctx, "unknown-username")
	s.NoError(err)
	s.Nil(user)
}

// PromoteToAdmin tests

func (s *ServiceSuite) TestPromoteToAdminSucceeds() {
	appUser := jeanNeige()
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(false, nil)
	s.store.On("FindByUsername", mock.Anything, "jean neige").Return(appUser, nil)
	s.store.On("Save", mock.Anything, appUser).Return(appUser, nil)

	admin, err := s.service.PromoteToAdmin(s.ctx, model.UserRef{Username: "jean neige"})
	s.Require().NoError(err)

	s.Require().NotNil(admin)
	s.Equal("jean neige", admin.Username)
	s.Equal(model.RoleAdmin, admin.Role)
	s.store.AssertCalled(s.T(), "Save", mock.Anything, appUser)
	s.store.AssertNumberOfCalls(s.T(), "Save", 1)
}

func (s *ServiceSuite) TestPromoteToAdminWhenAdminExistsFails() {
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(true, nil)

	_, err := s.service.PromoteToAdmin(s.ctx, model.UserRef{Username: "jean neige"})
	s.ErrorIs(err, model.ErrAdminAlreadyExists)

	s.store.AssertNotCalled(s.T(), "FindByUsername", mock.Anything, mock.Anything)
	s.store.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestPromoteToAdminUnknownUserFails() {
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(false, nil)
	s.store.On("FindByUsername", mock.Anything, "jean neige").Return(nil, nil)

	_, err := s.service.PromoteToAdmin(s.ctx, model.UserRef{Username: "jean neige"})
	s.ErrorIs(err, model.ErrUserNotFound)
	s.store.AssertNotCalled(s.T(), "Save", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestPromoteToAdminStampsUpdatedAt() {
	appUser := jeanNeige()
	s.clock.Advance(time.Hour)
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(false, nil)
	s.store.On("FindByUsername", mock.Anything, "jean neige").Return(appUser, nil)
	s.store.On("Save", mock.Anything, appUser).Return(appUser, nil)

	admin, err := s.service.PromoteToAdmin(s.ctx, model.UserRef{Username: "jean neige"})
	s.Require().NoError(err)
	s.True(admin.UpdatedAt.Equal(now.Add(time.Hour)))
}

// IsAdminPresent tests

func (s *ServiceSuite) TestIsAdminPresentNoAdmin() {
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(false, nil)

	present, err := s.service.IsAdminPresent(s.ctx)
	s.Require().NoError(err)
	s.False(present)
}

func (s *ServiceSuite) TestIsAdminPresentAdminExists() {
	s.store.On("ExistsByRole", mock.Anything, model.RoleAdmin).Return(true, nil)

	present, err := s.service.IsAdminPresent(s.ctx)
	s.Require().NoError(err)
	s.True(present)
}
