// Package config loads server settings from defaults, an optional YAML
// file and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/nelson/you-are-the-hero/internal/dependencies/hasher"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Auth    AuthConfig    `koanf:"auth"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects and configures the user store
type StorageConfig struct {
	Type        string `koanf:"type"`
	RedisURL    string `koanf:"redis_url"`
	PostgresURL string `koanf:"postgres_url"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// AuthConfig holds session and password hashing settings
type AuthConfig struct {
	SessionDuration time.Duration `koanf:"session_duration"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Hasher          string        `koanf:"hasher"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `koanf:"level"`
}

var defaults = map[string]any{
	"server.host":             "",
	"server.port":             8080,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    15 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,
	"storage.type":            "memory",
	"storage.redis_url":       "",
	"storage.postgres_url":    "",
	"storage.auto_migrate":    false,
	"auth.session_duration":   24 * time.Hour,
	"auth.cleanup_interval":   10 * time.Minute,
	"auth.hasher":             hasher.AlgorithmBcrypt,
	"log.level":               "info",
}

// flagKeys maps command-line flag names to configuration keys
var flagKeys = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"read-timeout":     "server.read_timeout",
	"write-timeout":    "server.write_timeout",
	"shutdown-timeout": "server.shutdown_timeout",
	"storage":          "storage.type",
	"redis-url":        "storage.redis_url",
	"postgres-url":     "storage.postgres_url",
	"auto-migrate":     "storage.auto_migrate",
	"session-duration": "auth.session_duration",
	"cleanup-interval": "auth.cleanup_interval",
	"hasher":           "auth.hasher",
	"log-level":        "log.level",
}

// RegisterFlags adds the configuration flags to fs. Only flags the user
// sets override the file and the defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a YAML config file")
	fs.String("host", "", "Listen host")
	fs.Int("port", 8080, "Listen port")
	fs.Duration("read-timeout", 15*time.Second, "HTTP read timeout")
	fs.Duration("write-timeout", 15*time.Second, "HTTP write timeout")
	fs.Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	fs.String("storage", "memory", "Storage backend: memory, redis, postgres")
	fs.String("redis-url", "", "Redis URL (storage=redis)")
	fs.String("postgres-url", "", "Postgres URL (storage=postgres)")
	fs.Bool("auto-migrate", false, "Apply Postgres migrations on start")
	fs.Duration("session-duration", 24*time.Hour, "Session lifetime")
	fs.Duration("cleanup-interval", 10*time.Minute, "Expired session sweep interval")
	fs.String("hasher", hasher.AlgorithmBcrypt, "Password hasher: bcrypt, argon2id")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
}

// Load builds the configuration from defaults, the YAML file named by the
// --config flag (if any) and the flags set on fs
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}

		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory":
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%w: storage.redis_url is required for redis storage", ErrInvalidConfig)
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("%w: storage.postgres_url is required for postgres storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.type %q", ErrInvalidConfig, c.Storage.Type)
	}

	if _, err := hasher.New(c.Auth.Hasher); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Auth.SessionDuration <= 0 {
		return fmt.Errorf("%w: auth.session_duration must be positive", ErrInvalidConfig)
	}
	if c.Auth.CleanupInterval <= 0 {
		return fmt.Errorf("%w: auth.cleanup_interval must be positive", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SlogLevel parses the configured log level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
