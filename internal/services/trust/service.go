package trust

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/util/log"
	"sealrpc/internal/util/memzero"
)

// Service performs discovery and confirmation for one client curve.
type Service struct {
	curve     domain.CurveName
	transport domain.Transport
	store     domain.TrustStore
	now       func() time.Time
}

// New returns a trust service. store may be nil, which disables pinning.
func New(curve domain.CurveName, t domain.Transport, store domain.TrustStore) *Service {
	if curve == "" {
		curve = domain.CurveP256
	}
	return &Service{curve: curve, transport: t, store: store, now: time.Now}
}

// Discover fetches and parses the key advertised by serverURL. Every
// failure wraps domain.ErrDiscovery.
func (s *Service) Discover(ctx context.Context, serverURL string) (domain.DiscoveryResult, error) {
	env, err := s.transport.FetchDiscovery(ctx, serverURL)
	if err != nil {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: %w", domain.ErrDiscovery, err)
	}
	if env.Error != nil {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: %w", domain.ErrDiscovery, env.Error)
	}
	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: response has no result", domain.ErrDiscovery)
	}
	var res struct {
		PubKey *string `json:"pubkey"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: malformed result: %v", domain.ErrDiscovery, err)
	}
	if res.PubKey == nil || strings.TrimSpace(*res.PubKey) == "" {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: result has no pubkey", domain.ErrDiscovery)
	}
	pk, err := domain.ParsePublicKeyHex(*res.PubKey)
	if err != nil {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: %v", domain.ErrDiscovery, err)
	}
	log.Debug("discovered server key",
		zap.String("server", serverURL),
		zap.String("fingerprint", crypto.Fingerprint(pk)),
	)
	return domain.DiscoveryResult{PublicKey: pk}, nil
}

// Confirm asks confirm about candidate. Only an explicit accept yields a
// ServerIdentity; a reject, an error from confirm, a nil confirm or a
// canceled ctx all fail with domain.ErrTrustRejected and wipe the candidate.
func (s *Service) Confirm(
	ctx context.Context,
	serverURL string,
	candidate domain.DiscoveryResult,
	confirm domain.ConfirmFunc,
) (domain.ServerIdentity, error) {
	defer memzero.Zero(candidate.PublicKey)

	if confirm == nil {
		return domain.ServerIdentity{}, fmt.Errorf("%w: no confirmation function", domain.ErrTrustRejected)
	}
	if len(candidate.PublicKey) == 0 {
		return domain.ServerIdentity{}, fmt.Errorf("%w: empty candidate key", domain.ErrTrustRejected)
	}

	shown := candidate.PublicKey.Clone()
	defer memzero.Zero(shown)

	ok, err := confirm(ctx, shown)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return domain.ServerIdentity{}, fmt.Errorf("%w: %w", domain.ErrTrustRejected, err)
	}
	if !ok {
		log.Info("server key rejected", zap.String("server", serverURL))
		return domain.ServerIdentity{}, domain.ErrTrustRejected
	}

	return domain.ServerIdentity{
		URL:          serverURL,
		Curve:        s.curve,
		PublicKey:    candidate.PublicKey.Clone(),
		ConfirmedUTC: s.now().UTC().Unix(),
	}, nil
}

// Bootstrap discovers the server key and establishes trust in it, by pin or
// by confirm. pinned reports that the store vouched for the key and confirm
// was not called. Bootstrap never writes to the store; see Pin.
func (s *Service) Bootstrap(
	ctx context.Context,
	serverURL string,
	confirm domain.ConfirmFunc,
) (id domain.ServerIdentity, pinned bool, err error) {
	found, err := s.Discover(ctx, serverURL)
	if err != nil {
		return domain.ServerIdentity{}, false, err
	}

	if s.store != nil {
		pin, ok, err := s.store.LoadServerIdentity(ctx, serverURL)
		switch {
		case err != nil:
			log.Warn("trust store unavailable, asking for confirmation",
				zap.String("server", serverURL), zap.Error(err))
		case ok && pin.Curve == s.curve && pin.PublicKey.Equal(found.PublicKey):
			memzero.Zero(found.PublicKey)
			return pin, true, nil
		case ok:
			log.Warn("server key differs from pinned key",
				zap.String("server", serverURL),
				zap.String("pinned", crypto.Fingerprint(pin.PublicKey)),
				zap.String("offered", crypto.Fingerprint(found.PublicKey)),
			)
		}
	}

	id, err = s.Confirm(ctx, serverURL, found, confirm)
	return id, false, err
}

// Pin saves a confirmed identity. Without a store it does nothing.
func (s *Service) Pin(ctx context.Context, id domain.ServerIdentity) error {
	if s.store == nil {
		return nil
	}
	if len(id.PublicKey) == 0 {
		return errors.New("trust: refusing to pin an empty key")
	}
	return s.store.SaveServerIdentity(ctx, id)
}

// Forget drops the pin for serverURL.
func (s *Service) Forget(ctx context.Context, serverURL string) error {
	if s.store == nil {
		return nil
	}
	return s.store.DeleteServerIdentity(ctx, serverURL)
}

var _ domain.TrustService = (*Service)(nil)
