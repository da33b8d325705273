package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nelson/you-are-the-hero/internal/api"
	"github.com/nelson/you-are-the-hero/internal/config"
	"github.com/nelson/you-are-the-hero/internal/factory"
	"github.com/nelson/you-are-the-hero/internal/observability"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
	pgstorage "github.com/nelson/you-are-the-hero/internal/storage/postgres"
	redisstorage "github.com/nelson/you-are-the-hero/internal/storage/redis"
)

// NewServeCmd creates the serve subcommand
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

// factoryConfig translates the loaded configuration into factory options
func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		AuthConfig:  auth.Config{SessionDuration: cfg.Auth.SessionDuration},
		Logger:      logger,
		Hasher:      cfg.Auth.Hasher,
		StorageType: cfg.Storage.Type,
		AutoMigrate: cfg.Storage.AutoMigrate,
	}

	switch cfg.Storage.Type {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		fc.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		fc.PostgresConfig = &pgstorage.Config{URL: cfg.Storage.PostgresURL}
	}

	return fc
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(os.Stdout, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	app, err := factory.New(ctx, factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing storage", slog.String("error", err.Error()))
		}
	}()

	go app.AuthService.RunCleanup(ctx, cfg.Auth.CleanupInterval)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		UserService:    app.UserService,
		AuthService:    app.AuthService,
		Metrics:        app.Metrics,
		MetricsHandler: observability.Handler(app.Registry),
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
