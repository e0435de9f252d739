package interfaces

import (
	"context"
	"net/http"

	domaintypes "sealrpc/internal/domain/types"
)

// Transport is how the client talks to the server, all with context.
type Transport interface {
	// FetchDiscovery issues the unauthenticated discovery read and returns the
	// decoded JSON-RPC envelope.
	FetchDiscovery(ctx context.Context, serverURL string) (domaintypes.RPCResponse, error)

	// PostFrame sends an encrypted frame tagged with the sender public key.
	// The caller owns the response body.
	PostFrame(
		ctx context.Context,
		serverURL string,
		frame domaintypes.EncryptedFrame,
		sender domaintypes.PublicKey,
	) (*http.Response, error)
}
