package trust

import (
	"context"
	"crypto/subtle"
	"strings"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
)

// AcceptKey returns a ConfirmFunc that accepts exactly expected, for servers
// whose key is known in advance.
func AcceptKey(expected domain.PublicKey) domain.ConfirmFunc {
	want := expected.Clone()
	return func(_ context.Context, key []byte) (bool, error) {
		return len(key) == len(want) && subtle.ConstantTimeCompare(key, want) == 1, nil
	}
}

// AcceptFingerprint returns a ConfirmFunc that accepts the key whose SHA-256
// fingerprint is fp. Spaces and case in fp are ignored.
func AcceptFingerprint(fp string) domain.ConfirmFunc {
	want := strings.ToLower(strings.ReplaceAll(fp, " ", ""))
	return func(_ context.Context, key []byte) (bool, error) {
		got := crypto.Fingerprint(key)
		return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1, nil
	}
}

// RejectAll declines every key.
func RejectAll(context.Context, []byte) (bool, error) { return false, nil }
