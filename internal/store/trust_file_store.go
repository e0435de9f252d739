package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"sealrpc/internal/domain"
)

const (
	trustFile       = "known_servers.json"
	sealedTrustFile = "known_servers.json.enc"
)

// TrustFileStore persists pinned server identities to a single file.
type TrustFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewTrustFileStore returns a plain JSON TrustFileStore rooted at dir.
func NewTrustFileStore(dir string) *TrustFileStore {
	return &TrustFileStore{dir: dir}
}

// NewSealedTrustFileStore returns a TrustFileStore whose file is sealed
// under passphrase. Reads with the wrong passphrase, or of a modified file,
// fail with ErrWrongPassphrase.
func NewSealedTrustFileStore(dir, passphrase string) *TrustFileStore {
	return &TrustFileStore{dir: dir, passphrase: passphrase}
}

// Path returns the file the store reads and writes.
func (s *TrustFileStore) Path() string {
	if s.passphrase != "" {
		return filepath.Join(s.dir, sealedTrustFile)
	}
	return filepath.Join(s.dir, trustFile)
}

// LoadServerIdentity returns the pin for serverURL and whether it was present.
func (s *TrustFileStore) LoadServerIdentity(
	_ context.Context,
	serverURL string,
) (domain.ServerIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins, err := s.read()
	if err != nil {
		return domain.ServerIdentity{}, false, err
	}
	id, ok := pins[normalizeURL(serverURL)]
	return id, ok, nil
}

// SaveServerIdentity stores or replaces the pin for id.URL.
func (s *TrustFileStore) SaveServerIdentity(_ context.Context, id domain.ServerIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins, err := s.read()
	if err != nil {
		return err
	}
	pins[normalizeURL(id.URL)] = id
	return s.write(pins)
}

// DeleteServerIdentity removes the pin for serverURL, if any.
func (s *TrustFileStore) DeleteServerIdentity(_ context.Context, serverURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pins, err := s.read()
	if err != nil {
		return err
	}
	key := normalizeURL(serverURL)
	if _, ok := pins[key]; !ok {
		return nil
	}
	delete(pins, key)
	return s.write(pins)
}

func (s *TrustFileStore) read() (map[string]domain.ServerIdentity, error) {
	pins := make(map[string]domain.ServerIdentity)
	b, err := readFile(s.Path())
	if err != nil || b == nil {
		return pins, err
	}
	if s.passphrase != "" {
		if b, err = unseal(s.passphrase, b); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(b, &pins); err != nil {
		return nil, err
	}
	return pins, nil
}

func (s *TrustFileStore) write(pins map[string]domain.ServerIdentity) error {
	b, err := marshalJSON(pins)
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		N, r, p := scryptParamsDefault()
		if b, err = seal(s.passphrase, b, N, r, p); err != nil {
			return err
		}
	}
	return writeFile(s.Path(), b, 0o600)
}

// Compile-time assertion that TrustFileStore implements domain.TrustStore.
var _ domain.TrustStore = (*TrustFileStore)(nil)
