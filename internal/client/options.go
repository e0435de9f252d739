package client

import (
	"net/http"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/rpc"
	"sealrpc/internal/transport"
)

// Option configures a Client at construction.
type Option func(*Client)

// WithCurve selects the key agreement curve. The default is P-256.
func WithCurve(c crypto.Curve) Option {
	return func(cl *Client) { cl.curve = c }
}

// WithProvider selects the AEAD and random source. The default is
// AES-256-GCM over crypto/rand.
func WithProvider(p crypto.Provider) Option {
	return func(cl *Client) { cl.provider = p }
}

// WithTransport replaces the HTTP transport.
func WithTransport(t domain.Transport) Option {
	return func(cl *Client) { cl.transport = t }
}

// WithHTTPClient uses hc for the default HTTP transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.transport = transport.NewHTTP(hc) }
}

// WithTrustStore enables pinning of confirmed server keys.
func WithTrustStore(s domain.TrustStore) Option {
	return func(cl *Client) { cl.store = s }
}

// WithMetrics records calls and bootstrap outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

// WithStaticID sends every request with the same id.
func WithStaticID(id uint64) Option {
	return func(cl *Client) { cl.ids = rpc.StaticID(id) }
}
