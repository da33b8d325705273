package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/nelson/you-are-the-hero/internal/dependencies/hasher"
)

// MockHasher is a testify mock of hasher.PasswordHasher
type MockHasher struct {
	mock.Mock
}

var _ hasher.PasswordHasher = (*MockHasher)(nil)

func (m *MockHasher) Encode(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

// PlainHasher is a reversible stand-in for fast tests: the hash is the
// password behind a fixed prefix
type PlainHasher struct{}

var _ hasher.PasswordHasher = PlainHasher{}

func (PlainHasher) Encode(password string) (string, error) {
	if password == "" {
		return "", hasher.ErrEmptyPassword
	}
	return "plain$" + password, nil
}

func (PlainHasher) Verify(password, hash string) (bool, error) {
	return hash == "plain$"+password, nil
}
