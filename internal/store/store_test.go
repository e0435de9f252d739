package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"

	"sealrpc/internal/domain"
	"sealrpc/internal/store"
)

func sampleIdentity(url string) domain.ServerIdentity {
	return domain.ServerIdentity{
		URL:          url,
		Curve:        domain.CurveP256,
		PublicKey:    domain.PublicKey{0x02, 0xaa, 0xbb, 0xcc},
		ConfirmedUTC: 1700000000,
	}
}

// exerciseStore runs the contract every TrustStore must meet.
func exerciseStore(t *testing.T, s domain.TrustStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.LoadServerIdentity(ctx, "https://rpc.example"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	want := sampleIdentity("https://rpc.example/")
	if err := s.SaveServerIdentity(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := s.LoadServerIdentity(ctx, "https://rpc.example")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if !got.PublicKey.Equal(want.PublicKey) || got.Curve != want.Curve || got.ConfirmedUTC != want.ConfirmedUTC {
		t.Fatalf("mismatch after load: %+v", got)
	}

	replaced := want
	replaced.PublicKey = domain.PublicKey{0x03, 0x01}
	if err := s.SaveServerIdentity(ctx, replaced); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _, _ = s.LoadServerIdentity(ctx, "https://rpc.example")
	if !got.PublicKey.Equal(replaced.PublicKey) {
		t.Fatalf("replace not visible: %x", got.PublicKey)
	}

	if err := s.DeleteServerIdentity(ctx, "https://rpc.example"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.LoadServerIdentity(ctx, "https://rpc.example"); ok {
		t.Fatal("pin survived delete")
	}
	if err := s.DeleteServerIdentity(ctx, "https://never.saved"); err != nil {
		t.Fatalf("delete of missing pin: %v", err)
	}
}

func TestMemoryTrustStore(t *testing.T) {
	exerciseStore(t, store.NewMemoryTrustStore())
}

func TestMemoryTrustStore_CopiesKeys(t *testing.T) {
	s := store.NewMemoryTrustStore()
	id := sampleIdentity("http://a")
	if err := s.SaveServerIdentity(context.Background(), id); err != nil {
		t.Fatalf("save: %v", err)
	}
	id.PublicKey[1] = 0
	got, _, _ := s.LoadServerIdentity(context.Background(), "http://a")
	if got.PublicKey[1] != 0xaa {
		t.Fatal("store aliases caller memory")
	}
}

func TestTrustFileStore(t *testing.T) {
	exerciseStore(t, store.NewTrustFileStore(t.TempDir()))
}

func TestTrustFileStore_PersistsAcrossInstances(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()

	if err := store.NewTrustFileStore(home).SaveServerIdentity(ctx, sampleIdentity("http://a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	s := store.NewTrustFileStore(home)
	got, ok, err := s.LoadServerIdentity(ctx, "http://a")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.PublicKey.Hex() != "02aabbcc" {
		t.Fatalf("pubkey = %s", got.PublicKey.Hex())
	}

	fi, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestTrustFileStore_HexOnDisk(t *testing.T) {
	s := store.NewTrustFileStore(t.TempDir())
	if err := s.SaveServerIdentity(context.Background(), sampleIdentity("http://a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"pubkey": "02aabbcc"`) {
		t.Fatalf("pubkey is not hex on disk:\n%s", b)
	}
}

func TestSealedTrustFileStore(t *testing.T) {
	exerciseStore(t, store.NewSealedTrustFileStore(t.TempDir(), "correct horse"))
}

func TestSealedTrustFileStore_WrongPassphrase_Fails(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()
	if err := store.NewSealedTrustFileStore(home, "correct").SaveServerIdentity(ctx, sampleIdentity("http://a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, _, err := store.NewSealedTrustFileStore(home, "wrong").LoadServerIdentity(ctx, "http://a")
	if !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestSealedTrustFileStore_Tampered_Fails(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()
	s := store.NewSealedTrustFileStore(home, "pass")
	if err := s.SaveServerIdentity(ctx, sampleIdentity("http://a")); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// Flip a byte inside the base64 ciphertext near the end of the blob.
	i := strings.Index(string(b), `"cipher":"`) + len(`"cipher":"`) + 4
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	if err := os.WriteFile(s.Path(), b, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := s.LoadServerIdentity(ctx, "http://a"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestSealedTrustFileStore_HeaderBoundToCiphertext(t *testing.T) {
	for field, value := range map[string]any{"v": 1, "scrypt_p": 2} {
		t.Run(field, func(t *testing.T) {
			home := t.TempDir()
			ctx := context.Background()
			s := store.NewSealedTrustFileStore(home, "pass")
			if err := s.SaveServerIdentity(ctx, sampleIdentity("http://a")); err != nil {
				t.Fatalf("save: %v", err)
			}
			b, err := os.ReadFile(s.Path())
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			var header map[string]any
			if err := json.Unmarshal(b, &header); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			header[field] = value
			if b, err = json.Marshal(header); err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if err := os.WriteFile(s.Path(), b, 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, _, err := s.LoadServerIdentity(ctx, "http://a"); !errors.Is(err, store.ErrWrongPassphrase) {
				t.Fatalf("err = %v, want ErrWrongPassphrase", err)
			}
		})
	}
}

func TestRedisTrustStore(t *testing.T) {
	addr := os.Getenv("SEALRPC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SEALRPC_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	exerciseStore(t, store.NewRedisTrustStore(rdb, "sealrpc-test:"+t.Name()+":"))
}
