package cli

import (
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator bootstrap commands",
	}

	cmd.AddCommand(newAdminStatusCmd())
	cmd.AddCommand(newAdminPromoteCmd())

	return cmd
}

func newAdminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an administrator exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AdminStatus
			if err := client.Get(cmd.Context(), "/admin/status", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newAdminPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <username>",
		Short: "Promote a user to administrator (only while none exists)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": args[0]}
			var result User
			if err := client.Post(cmd.Context(), "/admin/promote", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
