package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nelson/you-are-the-hero/internal/dependencies/clock"
	"github.com/nelson/you-are-the-hero/internal/dependencies/hasher"
	"github.com/nelson/you-are-the-hero/internal/dependencies/random"
	"github.com/nelson/you-are-the-hero/internal/model"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const (
	tokenPrefix   = "sess_"
	tokenLength   = 43
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

// Accounts is the subset of the user service that sessions are built on
type Accounts interface {
	Register(ctx context.Context, req model.AuthRequest) (*model.AppUser, error)
	ResolvePrincipal(ctx context.Context, username string) (*model.Principal, error)
}

// Session represents an authenticated session
type Session struct {
	Token     string
	Principal model.Principal
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles authentication and session management
type Service struct {
	accounts Accounts
	hasher   hasher.PasswordHasher
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(accounts Accounts, h hasher.PasswordHasher, clk clock.Clock, rnd random.Random, logger *slog.Logger, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		accounts:        accounts,
		hasher:          h,
		clock:           clk,
		random:          rnd,
		logger:          logger,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates a player account and opens a session for it
func (s *Service) Register(ctx context.Context, username, password string) (*Session, *model.AppUser, error) {
	user, err := s.accounts.Register(ctx, model.AuthRequest{Username: username, Password: password})
	if err != nil {
		return nil, nil, err
	}
	return s.createSession(*model.PrincipalFromUser(user)), user, nil
}

// Login checks credentials and opens a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	principal, err := s.accounts.ResolvePrincipal(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.logger.Warn("login for unknown user", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(password, principal.Password)
	if err != nil {
		if errors.Is(err, hasher.ErrInvalidHash) {
			s.logger.Error("stored password hash is unreadable", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Warn("login with wrong password", "username", username)
		return nil, ErrInvalidCredentials
	}

	return s.createSession(*principal), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Refresh reloads the principal behind a session, picking up role changes.
// The expiry is left untouched.
func (s *Service) Refresh(ctx context.Context, token string) (*Session, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}

	principal, err := s.accounts.ResolvePrincipal(ctx, session.Principal.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.InvalidateSession(token)
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	refreshed := *session
	refreshed.Principal = *principal

	s.mu.Lock()
	s.sessions[token] = &refreshed
	s.mu.Unlock()

	return &refreshed, nil
}

// RefreshUser reloads the principal of every live session held by username
// and reports how many were updated. A user that no longer exists loses all
// its sessions.
func (s *Service) RefreshUser(ctx context.Context, username string) (int, error) {
	principal, err := s.accounts.ResolvePrincipal(ctx, username)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for token, session := range s.sessions {
		if session.Principal.Username != username {
			continue
		}
		if principal == nil {
			delete(s.sessions, token)
			continue
		}
		refreshed := *session
		refreshed.Principal = *principal
		s.sessions[token] = &refreshed
		updated++
	}
	return updated, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions and reports how many went
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// RunCleanup sweeps expired sessions every interval until ctx is done
func (s *Service) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanExpiredSessions(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

func (s *Service) createSession(principal model.Principal) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     tokenPrefix + s.random.String(tokenLength, tokenAlphabet),
		Principal: principal,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("session opened", "username", principal.Username)
	return session
}
