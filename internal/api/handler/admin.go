package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
	"github.com/nelson/you-are-the-hero/internal/api/middleware"
	"github.com/nelson/you-are-the-hero/internal/api/request"
	"github.com/nelson/you-are-the-hero/internal/api/response"
	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/observability"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	"github.com/nelson/you-are-the-hero/internal/services/user"
)

// AdminHandler handles the administrator bootstrap endpoints
type AdminHandler struct {
	users   *user.Service
	auth    *auth.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin handler. metrics may be nil.
func NewAdminHandler(users *user.Service, authService *auth.Service, metrics *observability.Metrics, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:   users,
		auth:    authService,
		metrics: metrics,
		logger:  logger,
	}
}

// Status handles GET /api/v1/admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	present, err := h.users.IsAdminPresent(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AdminStatus{AdminPresent: present})
}

// Promote handles POST /api/v1/admin/promote. Any authenticated user may
// promote while the admin slot is free; afterwards every call is refused.
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetPrincipal(r.Context())

	var req request.PromoteRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if err := required("username", req.Username); err != nil {
		apierr.WriteError(w, err)
		return
	}

	admin, err := h.users.PromoteToAdmin(r.Context(), model.UserRef{Username: req.Username})
	if err != nil {
		if errors.Is(err, model.ErrAdminAlreadyExists) {
			h.metrics.RecordAccountEvent(observability.EventPromoteClash)
		}
		apierr.WriteError(w, err)
		return
	}
	h.metrics.RecordAccountEvent(observability.EventPromoted)
	h.logger.Info("administrator promoted",
		slog.String("username", admin.Username),
		slog.String("by", caller.Username),
	)

	// Open sessions of the promoted user carry the new authority at once
	if _, err := h.auth.RefreshUser(r.Context(), admin.Username); err != nil {
		h.logger.Warn("session refresh after promotion failed",
			slog.String("username", admin.Username),
			slog.Any("error", err),
		)
	}

	response.JSON(w, http.StatusOK, response.UserFromModel(admin))
}
