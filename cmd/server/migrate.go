package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/nelson/you-are-the-hero/internal/config"
	pgstorage "github.com/nelson/you-are-the-hero/internal/storage/postgres"
)

// migrator is the part of pgstorage.Migrator the commands drive
type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

// newMigrator is swapped in tests
var newMigrator = func(url string) (migrator, error) {
	return pgstorage.NewMigrator(url)
}

// NewMigrateCmd creates the migrate subcommand
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
		Long:  `Apply or roll back the embedded Postgres migrations for the user store.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m migrator) error {
				return printVersion(cmd, m)
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(migrator) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Storage.PostgresURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--postgres-url or storage.postgres_url is required")
	}

	m, err := newMigrator(cfg.Storage.PostgresURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "open migrator").Wrap(err)
	}

	runErr := fn(m)
	if closeErr := m.Close(); closeErr != nil && runErr == nil {
		return oops.Code("MIGRATION_CLOSE_FAILED").Wrap(closeErr)
	}
	return runErr
}

func printVersion(cmd *cobra.Command, m migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("Schema version %d (dirty)\n", version)
		return nil
	}
	cmd.Printf("Schema version %d\n", version)
	return nil
}
