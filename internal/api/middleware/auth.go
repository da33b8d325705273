package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
)

// SessionCookie is the cookie carrying the session token for browser clients
const SessionCookie = "session"

type contextKey string

const (
	principalContextKey contextKey = "principal"
	sessionContextKey   contextKey = "session"
)

// Auth rejects requests without a valid session and stores the session and
// its principal in the request context
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// WithSession returns a context carrying session and its principal
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, session)
	return context.WithValue(ctx, principalContextKey, &session.Principal)
}

// ExtractToken reads the bearer token, falling back to the session cookie
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// GetPrincipal returns the authenticated principal from the request context
func GetPrincipal(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(principalContextKey).(*model.Principal)
	return principal
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetPrincipal returns the authenticated principal or panics
func MustGetPrincipal(ctx context.Context) *model.Principal {
	principal := GetPrincipal(ctx)
	if principal == nil {
		panic("no principal in context - auth middleware not applied?")
	}
	return principal
}
