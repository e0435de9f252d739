package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sealrpc/internal/domain"
	"sealrpc/internal/services/trust"
)

// call <method> [params-json]: bootstrap a channel and send one request.
func callCmd() *cobra.Command {
	var (
		fingerprint string
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Send one encrypted JSON-RPC call and print the response",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params json.RawMessage
			if len(args) == 2 {
				params = json.RawMessage(args[1])
				if !json.Valid(params) {
					return fmt.Errorf("params are not valid JSON")
				}
			}

			var confirm domain.ConfirmFunc
			switch {
			case fingerprint != "":
				confirm = trust.AcceptFingerprint(fingerprint)
			case yes:
				confirm = func(context.Context, []byte) (bool, error) { return true, nil }
			default:
				confirm = promptConfirm(stdin, cmd.ErrOrStderr(), cfg.ServerURL)
			}

			c, err := wire.Dial(cmd.Context(), confirm)
			if err != nil {
				return err
			}
			defer c.Close()

			var p any
			if params != nil {
				p = params
			}
			resp, err := c.Call(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode/100 != 2 {
				fmt.Fprintf(cmd.ErrOrStderr(), "server returned %s\n", resp.Status)
			}
			_, err = io.Copy(stdout, resp.Body)
			return err
		},
	}
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "trust the server only if its key has this sha256 fingerprint")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "trust the discovered key without asking")
	return cmd
}
