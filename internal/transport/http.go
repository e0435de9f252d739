package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sealrpc/internal/domain"
)

const (
	// DiscoveryPath is appended to the server URL for key discovery.
	DiscoveryPath = "/discovery"
	// PublicKeyHeader carries the sender public key on every RPC post.
	PublicKeyHeader = "Public-Key"
	// FrameContentType is the content type of an encrypted RPC body.
	FrameContentType = "application/octet-stream"

	maxDiscoveryBytes = 64 << 10
)

// HTTP talks to a sealrpc server over net/http.
type HTTP struct {
	HTTP *http.Client
}

// NewHTTP returns an HTTP transport. A nil client selects http.DefaultClient.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{HTTP: client}
}

// FetchDiscovery reads the discovery envelope from serverURL.
func (c *HTTP) FetchDiscovery(ctx context.Context, serverURL string) (domain.RPCResponse, error) {
	var out domain.RPCResponse
	u := strings.TrimRight(serverURL, "/") + DiscoveryPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return out, fmt.Errorf("get %s: %s", u, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDiscoveryBytes)).Decode(&out); err != nil {
		return out, fmt.Errorf("get %s: decode: %w", u, err)
	}
	return out, nil
}

// PostFrame posts frame to serverURL. The caller closes the response body.
func (c *HTTP) PostFrame(
	ctx context.Context,
	serverURL string,
	frame domain.EncryptedFrame,
	sender domain.PublicKey,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL, bytes.NewReader(frame))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", FrameContentType)
	req.Header.Set(PublicKeyHeader, sender.Hex())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", serverURL, err)
	}
	return resp, nil
}

var _ domain.Transport = (*HTTP)(nil)
