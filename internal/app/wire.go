package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sealrpc/internal/client"
	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/services/trust"
	"sealrpc/internal/store"
	"sealrpc/internal/transport"
	"sealrpc/internal/util/log"
)

// Wire bundles the dependencies a client needs.
type Wire struct {
	Config    Config
	Curve     crypto.Curve
	Provider  crypto.Provider
	HTTP      *http.Client
	Transport domain.Transport
	Trust     domain.TrustStore // nil when TrustBackend is none
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics

	closers []func() error
}

// NewWire constructs the dependency graph from cfg. It does not touch the
// network; a redis backend connects lazily on first use.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	curve, err := crypto.CurveByName(cfg.Curve)
	if err != nil {
		return nil, err
	}
	suite, err := crypto.NewSuite(cfg.Cipher, nil)
	if err != nil {
		return nil, err
	}

	w := &Wire{
		Config:   cfg,
		Curve:    curve,
		Provider: suite,
		HTTP:     &http.Client{Timeout: cfg.Timeout},
		Registry: prometheus.NewRegistry(),
	}
	w.Transport = transport.NewHTTP(w.HTTP)
	if w.Metrics, err = metrics.New(w.Registry); err != nil {
		return nil, err
	}
	if w.Trust, err = w.trustStore(); err != nil {
		return nil, err
	}
	log.Debug("wired client",
		zap.String("curve", cfg.Curve.String()),
		zap.String("cipher", cfg.Cipher.String()),
		zap.String("trust", string(cfg.TrustBackend)),
	)
	return w, nil
}

func (w *Wire) trustStore() (domain.TrustStore, error) {
	cfg := w.Config
	switch cfg.TrustBackend {
	case TrustNone:
		return nil, nil
	case TrustMemory:
		return store.NewMemoryTrustStore(), nil
	case TrustRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		w.closers = append(w.closers, rdb.Close)
		return store.NewRedisTrustStore(rdb, cfg.RedisPrefix), nil
	}

	home := cfg.Home
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return nil, fmt.Errorf("create %s: %w", home, err)
	}
	if cfg.TrustBackend == TrustSealed {
		return store.NewSealedTrustFileStore(home, cfg.Passphrase), nil
	}
	return store.NewTrustFileStore(home), nil
}

// TrustService returns a trust service over the wired transport and store.
func (w *Wire) TrustService() *trust.Service {
	return trust.New(w.Curve.Name(), w.Transport, w.Trust)
}

// Options returns the client options matching the wiring.
func (w *Wire) Options() []client.Option {
	opts := []client.Option{
		client.WithCurve(w.Curve),
		client.WithProvider(w.Provider),
		client.WithTransport(w.Transport),
		client.WithMetrics(w.Metrics),
	}
	if w.Trust != nil {
		opts = append(opts, client.WithTrustStore(w.Trust))
	}
	if w.Config.StaticID != 0 {
		opts = append(opts, client.WithStaticID(w.Config.StaticID))
	}
	return opts
}

// Dial connects to the configured server.
func (w *Wire) Dial(ctx context.Context, confirm domain.ConfirmFunc) (*client.Client, error) {
	if w.Config.ServerURL == "" {
		return nil, errors.New("no server configured. use --url or SEALRPC_URL")
	}
	return client.Dial(ctx, w.Config.ServerURL, confirm, w.Options()...)
}

// Close releases backend connections.
func (w *Wire) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c())
	}
	w.closers = nil
	return errors.Join(errs...)
}
