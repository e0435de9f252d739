package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"sealrpc/internal/channel"
	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/rpc"
	"sealrpc/internal/services/trust"
	"sealrpc/internal/transport"
	"sealrpc/internal/util/log"
	"sealrpc/internal/util/memzero"
)

// Client is a secure RPC channel to one server.
type Client struct {
	url       string
	curve     crypto.Curve
	provider  crypto.Provider
	transport domain.Transport
	store     domain.TrustStore
	metrics   *metrics.Metrics
	ids       rpc.IDSource
	trust     *trust.Service

	// mu serializes Bootstrap and Close.
	mu           sync.Mutex
	bootstrapped bool
	identity     domain.ClientIdentity
	server       domain.ServerIdentity
	key          domain.SessionKey

	state  atomic.Int32
	sender atomic.Pointer[rpc.Sender]
}

// New generates a fresh identity for a client of serverURL. Nothing is
// sent until Bootstrap.
func New(serverURL string, opts ...Option) (*Client, error) {
	if serverURL == "" {
		return nil, errors.New("client: empty server url")
	}
	c := &Client{url: serverURL}
	for _, o := range opts {
		o(c)
	}
	if c.curve == nil {
		c.curve = crypto.P256
	}
	if c.provider == nil {
		c.provider = crypto.DefaultSuite()
	}
	if c.transport == nil {
		c.transport = transport.NewHTTP(nil)
	}
	if c.ids == nil {
		c.ids = new(rpc.Counter)
	}
	id, err := crypto.GenerateIdentity(c.curve, c.provider.Random())
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	c.identity = id
	c.trust = trust.New(c.curve.Name(), c.transport, c.store)
	return c, nil
}

// Dial is New followed by Bootstrap.
func Dial(ctx context.Context, serverURL string, confirm domain.ConfirmFunc, opts ...Option) (*Client, error) {
	c, err := New(serverURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Bootstrap(ctx, confirm); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Bootstrap discovers the server key, establishes trust in it and derives
// the session key. It runs once; the outcome is final. A pinned key that
// matches the discovered one is trusted without calling confirm.
func (c *Client) Bootstrap(ctx context.Context, confirm domain.ConfirmFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() == domain.StateClosed {
		return domain.ErrClosed
	}
	if c.bootstrapped {
		return domain.ErrBootstrapped
	}
	c.bootstrapped = true

	asked := func(ctx context.Context, key []byte) (bool, error) {
		c.setState(domain.StateTrustPending)
		if confirm == nil {
			return false, nil
		}
		return confirm(ctx, key)
	}

	server, pinned, err := c.trust.Bootstrap(ctx, c.url, asked)
	if err != nil {
		return c.fail(err)
	}
	if pinned {
		c.setState(domain.StateTrustPending)
	}
	c.setState(domain.StateTrusted)

	key, err := crypto.DeriveSessionKey(c.identity, server)
	if err != nil {
		memzero.Zero(server.PublicKey)
		return c.fail(err)
	}
	ch, err := channel.New(c.provider, key)
	if err != nil {
		memzero.Zero(key.Slice())
		memzero.Zero(server.PublicKey)
		return c.fail(fmt.Errorf("%w: %w", domain.ErrKeyAgreement, err))
	}

	if !pinned {
		if err := c.trust.Pin(ctx, server); err != nil {
			log.Warn("could not pin server key", zap.String("server", c.url), zap.Error(err))
		}
	}

	c.server = server
	c.key = key
	c.sender.Store(&rpc.Sender{
		URL:       c.url,
		Transport: c.transport,
		Channel:   ch,
		Public:    c.identity.Public,
		Metrics:   c.metrics,
	})
	c.setState(domain.StateReady)

	outcome := "confirmed"
	if pinned {
		outcome = "pinned"
	}
	c.metrics.ObserveBootstrap(outcome)
	log.Info("secure channel ready",
		zap.String("server", c.url),
		zap.String("trust", outcome),
		zap.String("fingerprint", crypto.Fingerprint(server.PublicKey)),
	)
	return nil
}

func (c *Client) fail(err error) error {
	var (
		st      domain.State
		outcome string
	)
	switch {
	case errors.Is(err, domain.ErrDiscovery):
		st, outcome = domain.StateDiscoveryFailed, "discovery_failed"
	case errors.Is(err, domain.ErrTrustRejected):
		st, outcome = domain.StateRejected, "rejected"
	default:
		st, outcome = domain.StateKeyAgreementFailed, "key_agreement_failed"
	}
	c.setState(st)
	c.metrics.ObserveBootstrap(outcome)
	log.Info("bootstrap failed", zap.String("server", c.url), zap.Stringer("state", st), zap.Error(err))
	return err
}

func (c *Client) setState(s domain.State) { c.state.Store(int32(s)) }

// State returns the current lifecycle state.
func (c *Client) State() domain.State { return domain.State(c.state.Load()) }

// ServerIdentity returns the trusted server identity once Ready.
func (c *Client) ServerIdentity() (domain.ServerIdentity, bool) {
	if c.State() != domain.StateReady {
		return domain.ServerIdentity{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.server.PublicKey) == 0 {
		return domain.ServerIdentity{}, false
	}
	id := c.server
	id.PublicKey = id.PublicKey.Clone()
	return id, true
}

// PublicKey returns a copy of the client public key.
func (c *Client) PublicKey() domain.PublicKey {
	return c.identity.Public.Clone()
}

// URL returns the server URL.
func (c *Client) URL() string { return c.url }

// Close wipes key material. Later calls fail with domain.ErrClosed. Close
// waits for a Bootstrap in progress.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State() == domain.StateClosed {
		return nil
	}
	c.setState(domain.StateClosed)
	c.sender.Store(nil)
	memzero.ZeroAll(c.identity.Private.Slice(), c.key.Slice(), c.server.PublicKey)
	c.identity.Private = nil
	c.server = domain.ServerIdentity{}
	return nil
}

func (c *Client) ready() (*rpc.Sender, error) {
	switch st := c.State(); st {
	case domain.StateReady:
		if s := c.sender.Load(); s != nil {
			return s, nil
		}
		return nil, domain.ErrClosed
	case domain.StateRejected:
		return nil, domain.ErrTrustRejected
	case domain.StateDiscoveryFailed:
		return nil, domain.ErrDiscovery
	case domain.StateKeyAgreementFailed:
		return nil, domain.ErrKeyAgreement
	case domain.StateClosed:
		return nil, domain.ErrClosed
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotReady, st)
	}
}

// Send seals req and posts it. The response is returned unparsed; the
// caller closes its body.
func (c *Client) Send(ctx context.Context, req domain.RPCRequest) (*http.Response, error) {
	s, err := c.ready()
	if err != nil {
		return nil, err
	}
	return s.Send(ctx, req)
}

// Call builds a request for method with the next id and sends it.
func (c *Client) Call(ctx context.Context, method string, params any) (*http.Response, error) {
	return c.call(ctx, method, rpc.ConventionFor(method), params)
}

func (c *Client) call(ctx context.Context, method string, conv rpc.Convention, params any) (*http.Response, error) {
	if _, err := c.ready(); err != nil {
		return nil, err
	}
	req, err := rpc.BuildRequestWith(method, conv, params, c.ids.Next())
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, req)
}

// Invoke calls method and decodes the JSON-RPC result into out. A server
// error object is returned as *rpc.Error.
func (c *Client) Invoke(ctx context.Context, method string, params, out any) error {
	resp, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	return rpc.DecodeResponse(resp, out)
}

// Deploy calls deploy with positional params.
func (c *Client) Deploy(ctx context.Context, params any) (*http.Response, error) {
	return c.call(ctx, rpc.MethodDeploy, rpc.Positional, params)
}

// Execute calls execute with named params.
func (c *Client) Execute(ctx context.Context, params any) (*http.Response, error) {
	return c.call(ctx, rpc.MethodExecute, rpc.Named, params)
}

// Transfer calls transfer with positional params.
func (c *Client) Transfer(ctx context.Context, params any) (*http.Response, error) {
	return c.call(ctx, rpc.MethodTransfer, rpc.Positional, params)
}

// Join calls join with positional params.
func (c *Client) Join(ctx context.Context, params any) (*http.Response, error) {
	return c.call(ctx, rpc.MethodJoin, rpc.Positional, params)
}

// Split calls split with positional params.
func (c *Client) Split(ctx context.Context, params any) (*http.Response, error) {
	return c.call(ctx, rpc.MethodSplit, rpc.Positional, params)
}
