package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
	"github.com/nelson/you-are-the-hero/internal/api/middleware"
	"github.com/nelson/you-are-the-hero/internal/api/request"
	"github.com/nelson/you-are-the-hero/internal/api/response"
	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/observability"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	"github.com/nelson/you-are-the-hero/internal/services/user"
)

// UserHandler handles account endpoints
type UserHandler struct {
	users   *user.Service
	auth    *auth.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler. metrics may be nil.
func NewUserHandler(users *user.Service, authService *auth.Service, metrics *observability.Metrics, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		auth:    authService,
		metrics: metrics,
		logger:  logger,
	}
}

func readCredentials(r *http.Request) (request.CredentialsRequest, error) {
	var req request.CredentialsRequest
	if err := decode(r, &req); err != nil {
		return req, err
	}
	req.Normalize()
	if err := required("username", req.Username); err != nil {
		return req, err
	}
	if err := required("password", req.Password); err != nil {
		return req, err
	}
	return req, nil
}

// Register handles POST /api/v1/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := readCredentials(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if request.IsReservedUsername(req.Username) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is reserved"))
		return
	}

	session, _, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.metrics.RecordAccountEvent(observability.EventRegistered)

	setSessionCookie(w, session)
	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := readCredentials(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.RecordAccountEvent(observability.EventLoginFailed)
		apierr.WriteError(w, err)
		return
	}
	h.metrics.RecordAccountEvent(observability.EventLogin)

	setSessionCookie(w, session)
	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.auth.InvalidateSession(session.Token)
		h.metrics.RecordAccountEvent(observability.EventLogout)
	}
	clearSessionCookie(w)
	response.NoContent(w)
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	response.JSON(w, http.StatusOK, response.PrincipalFromModel(principal))
}

// Get handles GET /api/v1/users/{username}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	found, err := h.users.FindByUsername(r.Context(), username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if found == nil {
		apierr.WriteError(w, model.ErrUserNotFound)
		return
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(found))
}

func setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
