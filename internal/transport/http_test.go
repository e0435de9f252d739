package transport_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sealrpc/internal/domain"
	"sealrpc/internal/transport"
)

func TestFetchDiscovery_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/discovery" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":{"pubkey":"02aa"}}`)
	}))
	defer srv.Close()

	env, err := transport.NewHTTP(srv.Client()).FetchDiscovery(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("FetchDiscovery: %v", err)
	}
	if string(env.Result) != `{"pubkey":"02aa"}` {
		t.Fatalf("result = %s", env.Result)
	}
}

func TestFetchDiscovery_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := transport.NewHTTP(srv.Client()).FetchDiscovery(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestFetchDiscovery_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	if _, err := transport.NewHTTP(srv.Client()).FetchDiscovery(context.Background(), srv.URL); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPostFrame_Headers(t *testing.T) {
	frame := domain.EncryptedFrame(bytes.Repeat([]byte{7}, 40))
	pub := domain.PublicKey{0x02, 0xAB, 0xCD}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("content-type = %q", got)
		}
		if got := r.Header.Get("Public-Key"); got != "02abcd" {
			t.Errorf("public-key = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, frame) {
			t.Errorf("body mismatch")
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	resp, err := transport.NewHTTP(srv.Client()).PostFrame(context.Background(), srv.URL, frame, pub)
	if err != nil {
		t.Fatalf("PostFrame: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestPostFrame_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := transport.NewHTTP(srv.Client()).PostFrame(ctx, srv.URL, nil, nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
