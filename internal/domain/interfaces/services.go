package interfaces

import (
	"context"

	domaintypes "sealrpc/internal/domain/types"
)

// ConfirmFunc decides whether a discovered server key is trusted. It may
// block for as long as a human needs; ctx cancellation counts as a reject.
type ConfirmFunc func(ctx context.Context, serverKey []byte) (bool, error)

// TrustService turns an untrusted discovery result into a ServerIdentity.
type TrustService interface {
	Discover(ctx context.Context, serverURL string) (domaintypes.DiscoveryResult, error)
	Confirm(
		ctx context.Context,
		serverURL string,
		candidate domaintypes.DiscoveryResult,
		confirm ConfirmFunc,
	) (domaintypes.ServerIdentity, error)
}
