package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"sealrpc/internal/client"
	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/rpc"
	"sealrpc/internal/server"
	"sealrpc/internal/services/trust"
	"sealrpc/internal/transport"
)

func start(t *testing.T, curve crypto.Curve, provider crypto.Provider) (*server.Server, *httptest.Server) {
	t.Helper()
	s, err := server.New(curve, provider)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func dial(t *testing.T, s *server.Server, ts *httptest.Server, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append(opts, client.WithHTTPClient(ts.Client()))
	c, err := client.Dial(context.Background(), ts.URL, trust.AcceptKey(s.PublicKey()), opts...)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDiscoveryAdvertisesKey(t *testing.T) {
	s, ts := start(t, nil, nil)
	env, err := transport.NewHTTP(ts.Client()).FetchDiscovery(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	var res domain.DiscoveryResult
	if err := json.Unmarshal(env.Result, &res); err != nil {
		t.Fatalf("result: %v", err)
	}
	if !res.PublicKey.Equal(s.PublicKey()) {
		t.Fatalf("advertised %x, want %x", res.PublicKey, s.PublicKey())
	}
}

func TestDiscoveryCORS(t *testing.T) {
	_, ts := start(t, nil, nil)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+transport.DiscoveryPath, nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("no CORS origin header")
	}
}

func TestEchoAllCombinations(t *testing.T) {
	suites := []domain.CipherName{domain.CipherAESGCM, domain.CipherChaCha20Poly1305}
	for _, curve := range []crypto.Curve{crypto.P256, crypto.Secp256k1} {
		for _, name := range suites {
			t.Run(string(curve.Name())+"/"+string(name), func(t *testing.T) {
				suite, err := crypto.NewSuite(name, nil)
				if err != nil {
					t.Fatalf("suite: %v", err)
				}
				s, ts := start(t, curve, suite)
				c := dial(t, s, ts, client.WithCurve(curve), client.WithProvider(suite))
				var out []any
				if err := c.Invoke(context.Background(), rpc.MethodTransfer, json.RawMessage(`{"to":"X","amount":5}`), &out); err != nil {
					t.Fatalf("invoke: %v", err)
				}
				if len(out) != 2 || out[0] != "X" || out[1] != float64(5) {
					t.Fatalf("echo = %v", out)
				}
			})
		}
	}
}

func TestCustomHandlerAndErrors(t *testing.T) {
	s, ts := start(t, nil, nil)
	s.Handle("sum", func(_ context.Context, params json.RawMessage) (any, error) {
		var xs []int
		if err := json.Unmarshal(params, &xs); err != nil {
			return nil, &domain.RPCError{Code: server.CodeInvalidParams, Message: "want an array of ints"}
		}
		n := 0
		for _, x := range xs {
			n += x
		}
		return n, nil
	})
	s.Handle("boom", func(context.Context, json.RawMessage) (any, error) {
		return nil, errors.New("boom")
	})
	c := dial(t, s, ts)

	var n int
	if err := c.Invoke(context.Background(), "sum", []int{1, 2, 3}, &n); err != nil || n != 6 {
		t.Fatalf("sum = %d, %v", n, err)
	}
	if e, ok := rpc.IsError(c.Invoke(context.Background(), "sum", map[string]int{"a": 1}, nil)); !ok || e.Code != server.CodeInvalidParams {
		t.Fatalf("invalid params: %v", e)
	}
	if e, ok := rpc.IsError(c.Invoke(context.Background(), "boom", nil, nil)); !ok || e.Code != server.CodeInternalError {
		t.Fatalf("internal: %v", e)
	}
	if e, ok := rpc.IsError(c.Invoke(context.Background(), "nope", nil, nil)); !ok || e.Code != server.CodeMethodNotFound {
		t.Fatalf("not found: %v", e)
	}
}

func TestRejectsForgedFrames(t *testing.T) {
	_, ts := start(t, nil, nil)
	id, err := crypto.GenerateIdentity(crypto.P256, nil)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	frame := bytes.Repeat([]byte{0x41}, 64)
	resp, err := transport.NewHTTP(ts.Client()).PostFrame(context.Background(), ts.URL, frame, id.Public)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, ts.URL, bytes.NewReader(frame))
	resp2, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing key status = %d", resp2.StatusCode)
	}
}

func TestServerRecordsMetrics(t *testing.T) {
	s, ts := start(t, nil, nil)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	s.Metrics = m
	c := dial(t, s, ts)
	if err := c.Invoke(context.Background(), rpc.MethodJoin, []string{"a"}, nil); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var joins float64
	for _, f := range families {
		if f.GetName() != "sealrpc_rpc_calls_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "method" && l.GetValue() == rpc.MethodJoin {
					joins += m.GetCounter().GetValue()
				}
			}
		}
	}
	if joins != 1 {
		t.Fatalf("join calls = %v", joins)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	s, err := server.New(nil, nil)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0", nil) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}
