package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
	"github.com/nelson/you-are-the-hero/internal/api/handler"
	"github.com/nelson/you-are-the-hero/internal/api/middleware"
	"github.com/nelson/you-are-the-hero/internal/observability"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	"github.com/nelson/you-are-the-hero/internal/services/user"

	basemw "github.com/nelson/you-are-the-hero/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	UserService *user.Service
	AuthService *auth.Service

	// Metrics and MetricsHandler are optional; /metrics is only mounted
	// when MetricsHandler is set
	Metrics        *observability.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	userHandler := handler.NewUserHandler(cfg.UserService, cfg.AuthService, cfg.Metrics, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.UserService, cfg.AuthService, cfg.Metrics, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)

	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(basemw.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		api.Use(basemw.Metrics(cfg.Metrics))
	}

	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// Account creation and login need no session
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/admin/status", adminHandler.Status).Methods(http.MethodGet)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	users.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	users.HandleFunc("/{username}", userHandler.Get).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.HandleFunc("/promote", adminHandler.Promote).Methods(http.MethodPost)

	return r
}
