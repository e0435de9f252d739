package interfaces

import (
	"context"

	domaintypes "sealrpc/internal/domain/types"
)

// TrustStore pins confirmed server identities so later runs can skip the
// confirmation prompt. Implementations must only ever be handed identities
// that passed confirmation.
type TrustStore interface {
	LoadServerIdentity(ctx context.Context, serverURL string) (domaintypes.ServerIdentity, bool, error)
	SaveServerIdentity(ctx context.Context, id domaintypes.ServerIdentity) error
	DeleteServerIdentity(ctx context.Context, serverURL string) error
}
