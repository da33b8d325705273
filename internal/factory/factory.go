package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nelson/you-are-the-hero/internal/dependencies/clock"
	"github.com/nelson/you-are-the-hero/internal/dependencies/hasher"
	"github.com/nelson/you-are-the-hero/internal/dependencies/random"
	"github.com/nelson/you-are-the-hero/internal/observability"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	"github.com/nelson/you-are-the-hero/internal/services/user"
	"github.com/nelson/you-are-the-hero/internal/storage"
	"github.com/nelson/you-are-the-hero/internal/storage/memory"
	pgstorage "github.com/nelson/you-are-the-hero/internal/storage/postgres"
	redisstorage "github.com/nelson/you-are-the-hero/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	Storage storage.UserStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Hasher hasher.PasswordHasher

	// Services
	UserService *user.Service
	AuthService *auth.Service

	// Observability
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	closeStorage func() error
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Hasher names the password hash algorithm, "bcrypt" when empty
	Hasher string
	// StorageType selects the storage backend, "memory" when empty
	StorageType string
	// RedisConfig is required if StorageType is "redis"
	RedisConfig *redisstorage.Config
	// PostgresConfig is required if StorageType is "postgres"
	PostgresConfig *pgstorage.Config
	// AutoMigrate applies pending Postgres migrations before connecting
	AutoMigrate bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	h, err := hasher.New(cfg.Hasher)
	if err != nil {
		return nil, err
	}

	store, closeStorage, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, h, clock.New(), random.New(), authCfg, logger)
	app.closeStorage = closeStorage
	return app, nil
}

func newStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.UserStore, func() error, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil

	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		if cfg.AutoMigrate {
			if err := migrateUp(cfg.PostgresConfig.URL, logger); err != nil {
				return nil, nil, err
			}
		}
		store, err := pgstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or postgres", storageType)
	}
}

func migrateUp(url string, logger *slog.Logger) error {
	migrator, err := pgstorage.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrator.Close(); cerr != nil {
			logger.Warn("closing migrator", slog.Any("error", cerr))
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	if version, dirty, err := migrator.Version(); err == nil {
		logger.Info("database schema ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.UserStore, h hasher.PasswordHasher, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	userService := user.New(store, h, clk, rnd, logger)
	authService := auth.New(userService, h, clk, rnd, logger, authCfg)

	registry := observability.NewRegistry()
	metrics := observability.NewMetrics(registry)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Hasher:      h,
		UserService: userService,
		AuthService: authService,
		Registry:    registry,
		Metrics:     metrics,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.closeStorage == nil {
		return nil
	}
	return a.closeStorage()
}
