package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

// health probes the root endpoint so it works without the API prefix.
func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Do(cmd.Context(), http.MethodGet, "/health", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
