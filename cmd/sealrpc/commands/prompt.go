package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
)

// promptConfirm asks on out and reads y/N from in. Anything but y or yes
// is a reject, as is ctx ending first.
func promptConfirm(in io.Reader, out io.Writer, serverURL string) domain.ConfirmFunc {
	return func(ctx context.Context, key []byte) (bool, error) {
		fmt.Fprintf(out, "Server %s presents key\n  %s\n", serverURL,
			crypto.GroupFingerprint(crypto.Fingerprint(key)))
		fmt.Fprint(out, "Trust this key? [y/N] ")

		// If ctx ends first this goroutine stays blocked on in until the
		// process exits; the CLI prompts at most once per run.
		answer := make(chan string, 1)
		go func() {
			line, _ := bufio.NewReader(in).ReadString('\n')
			answer <- line
		}()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line := <-answer:
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			}
			return false, nil
		}
	}
}
