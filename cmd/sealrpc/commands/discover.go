package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealrpc/internal/crypto"
)

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Fetch the server key and print its fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ServerURL == "" {
				return fmt.Errorf("no server configured. use --url")
			}
			svc := wire.TrustService()
			res, err := svc.Discover(cmd.Context(), cfg.ServerURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Public key:  %s\n", res.PublicKey.Hex())
			fmt.Fprintf(stdout, "Fingerprint: %s\n", crypto.GroupFingerprint(crypto.Fingerprint(res.PublicKey)))
			if wire.Trust != nil {
				pin, ok, err := wire.Trust.LoadServerIdentity(cmd.Context(), cfg.ServerURL)
				switch {
				case err != nil:
					fmt.Fprintf(stdout, "Pinned:      unknown (%v)\n", err)
				case !ok:
					fmt.Fprintln(stdout, "Pinned:      no")
				case pin.PublicKey.Equal(res.PublicKey):
					fmt.Fprintln(stdout, "Pinned:      yes")
				default:
					fmt.Fprintln(stdout, "Pinned:      DIFFERENT KEY")
				}
			}
			return nil
		},
	}
}
