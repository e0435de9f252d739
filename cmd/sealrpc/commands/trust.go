package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func trustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Manage pinned server keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "forget",
		Short: "Drop the pinned key for the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ServerURL == "" {
				return fmt.Errorf("no server configured. use --url")
			}
			if wire.Trust == nil {
				return fmt.Errorf("trust backend %q keeps no pins", cfg.TrustBackend)
			}
			if err := wire.TrustService().Forget(cmd.Context(), cfg.ServerURL); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "forgot %s\n", cfg.ServerURL)
			return nil
		},
	})
	return cmd
}
