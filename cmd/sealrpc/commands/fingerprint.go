package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <hex-public-key>",
		Short: "Print the fingerprint of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := domain.ParsePublicKeyHex(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Fingerprint: %s\n", crypto.GroupFingerprint(crypto.Fingerprint(pk)))
			return nil
		},
	}
}
