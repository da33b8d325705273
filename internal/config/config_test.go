package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	fs *pflag.FlagSet
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(s.fs)
}

func (s *ConfigSuite) writeFile(body string) string {
	path := filepath.Join(s.T().TempDir(), "hero.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load(s.fs)
	s.Require().NoError(err)

	s.Equal(8080, cfg.Server.Port)
	s.Equal(15*time.Second, cfg.Server.ReadTimeout)
	s.Equal("memory", cfg.Storage.Type)
	s.Equal(24*time.Hour, cfg.Auth.SessionDuration)
	s.Equal("bcrypt", cfg.Auth.Hasher)
	s.Equal("info", cfg.Log.Level)
}

func (s *ConfigSuite) TestNilFlagSetUsesDefaults() {
	cfg, err := Load(nil)
	s.Require().NoError(err)
	s.Equal(8080, cfg.Server.Port)
}

func (s *ConfigSuite) TestFileOverridesDefaults() {
	path := s.writeFile(`
server:
  port: 9090
  write_timeout: 5s
storage:
  type: redis
  redis_url: redis://localhost:6379/2
auth:
  hasher: argon2id
log:
  level: debug
`)
	s.Require().NoError(s.fs.Parse([]string{"--config", path}))

	cfg, err := Load(s.fs)
	s.Require().NoError(err)

	s.Equal(9090, cfg.Server.Port)
	s.Equal(5*time.Second, cfg.Server.WriteTimeout)
	s.Equal(15*time.Second, cfg.Server.ReadTimeout)
	s.Equal("redis", cfg.Storage.Type)
	s.Equal("redis://localhost:6379/2", cfg.Storage.RedisURL)
	s.Equal("argon2id", cfg.Auth.Hasher)

	level, err := cfg.Log.SlogLevel()
	s.Require().NoError(err)
	s.Equal(slog.LevelDebug, level)
}

func (s *ConfigSuite) TestFlagsOverrideFile() {
	path := s.writeFile("server:\n  port: 9090\n")
	s.Require().NoError(s.fs.Parse([]string{
		"--config", path,
		"--port", "7070",
		"--storage", "postgres",
		"--postgres-url", "postgres://hero@localhost/hero",
		"--auto-migrate",
		"--session-duration", "2h",
	}))

	cfg, err := Load(s.fs)
	s.Require().NoError(err)

	s.Equal(7070, cfg.Server.Port)
	s.Equal("postgres", cfg.Storage.Type)
	s.Equal("postgres://hero@localhost/hero", cfg.Storage.PostgresURL)
	s.True(cfg.Storage.AutoMigrate)
	s.Equal(2*time.Hour, cfg.Auth.SessionDuration)
}

func (s *ConfigSuite) TestUnsetFlagsDoNotOverrideFile() {
	path := s.writeFile("auth:\n  hasher: argon2id\n")
	s.Require().NoError(s.fs.Parse([]string{"--config", path}))

	cfg, err := Load(s.fs)
	s.Require().NoError(err)
	s.Equal("argon2id", cfg.Auth.Hasher)
}

func (s *ConfigSuite) TestMissingFileFails() {
	s.Require().NoError(s.fs.Parse([]string{"--config", "/nonexistent/hero.yaml"}))

	_, err := Load(s.fs)
	s.Error(err)
}

func (s *ConfigSuite) TestValidation() {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown storage", []string{"--storage", "sqlite"}},
		{"redis without url", []string{"--storage", "redis"}},
		{"postgres without url", []string{"--storage", "postgres"}},
		{"unknown hasher", []string{"--hasher", "md5"}},
		{"zero session", []string{"--session-duration", "0s"}},
		{"bad port", []string{"--port", "70000"}},
		{"bad log level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			RegisterFlags(fs)
			s.Require().NoError(fs.Parse(tt.args))

			_, err := Load(fs)
			s.ErrorIs(err, ErrInvalidConfig)
		})
	}
}
