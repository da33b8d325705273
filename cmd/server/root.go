package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nelson/you-are-the-hero/internal/config"
)

// NewRootCmd creates the root command of the server binary
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "You Are The Hero account server",
		Long: `Runs the You Are The Hero account API: player registration,
login sessions and the one-time administrator bootstrap.`,
		SilenceUsage: true,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// newLogger builds the JSON logger used by every component
func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}
