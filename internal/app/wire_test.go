package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sealrpc/internal/app"
	"sealrpc/internal/domain"
	"sealrpc/internal/server"
	"sealrpc/internal/services/trust"
)

func config(t *testing.T, backend app.TrustBackend) app.Config {
	t.Helper()
	return app.Config{
		Home:         t.TempDir(),
		Curve:        domain.CurveP256,
		Cipher:       domain.CipherAESGCM,
		TrustBackend: backend,
		Passphrase:   "pw",
		LogLevel:     "info",
	}
}

func TestNewWireBackends(t *testing.T) {
	for _, b := range []app.TrustBackend{app.TrustFile, app.TrustSealed, app.TrustMemory, app.TrustRedis} {
		t.Run(string(b), func(t *testing.T) {
			cfg := config(t, b)
			cfg.RedisAddr = "127.0.0.1:1"
			w, err := app.NewWire(cfg)
			if err != nil {
				t.Fatalf("NewWire: %v", err)
			}
			defer w.Close()
			if w.Trust == nil {
				t.Fatalf("no trust store")
			}
		})
	}

	w, err := app.NewWire(config(t, app.TrustNone))
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	if w.Trust != nil {
		t.Fatalf("none backend has a store")
	}
}

func TestNewWireRejectsBadConfig(t *testing.T) {
	cfg := config(t, app.TrustNone)
	cfg.Curve = "p384"
	if _, err := app.NewWire(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDialWithoutURL(t *testing.T) {
	w, err := app.NewWire(config(t, app.TrustNone))
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	if _, err := w.Dial(context.Background(), trust.RejectAll); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDialPinsToFile(t *testing.T) {
	s, err := server.New(nil, nil)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	cfg := config(t, app.TrustFile)
	cfg.ServerURL = ts.URL
	w, err := app.NewWire(cfg)
	if err != nil {
		t.Fatalf("NewWire: %v", err)
	}
	defer w.Close()

	c, err := w.Dial(context.Background(), trust.AcceptKey(s.PublicKey()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	var out map[string]string
	if err := c.Invoke(context.Background(), "execute", map[string]string{"k": "v"}, &out); err != nil || out["k"] != "v" {
		t.Fatalf("invoke: %v %v", out, err)
	}
	_ = c.Close()

	if _, err := os.Stat(filepath.Join(cfg.Home, "known_servers.json")); err != nil {
		t.Fatalf("pin file: %v", err)
	}
	pin, ok, err := w.Trust.LoadServerIdentity(context.Background(), ts.URL)
	if err != nil || !ok || !pin.PublicKey.Equal(s.PublicKey()) {
		t.Fatalf("pin = %+v %v %v", pin, ok, err)
	}
}
