package store

import (
	"context"
	"sync"

	"sealrpc/internal/domain"
)

// MemoryTrustStore keeps pins in process memory.
type MemoryTrustStore struct {
	mu   sync.RWMutex
	pins map[string]domain.ServerIdentity
}

// NewMemoryTrustStore returns an empty MemoryTrustStore.
func NewMemoryTrustStore() *MemoryTrustStore {
	return &MemoryTrustStore{pins: make(map[string]domain.ServerIdentity)}
}

func (s *MemoryTrustStore) LoadServerIdentity(
	_ context.Context,
	serverURL string,
) (domain.ServerIdentity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pins[normalizeURL(serverURL)]
	if ok {
		id.PublicKey = id.PublicKey.Clone()
	}
	return id, ok, nil
}

func (s *MemoryTrustStore) SaveServerIdentity(_ context.Context, id domain.ServerIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id.PublicKey = id.PublicKey.Clone()
	s.pins[normalizeURL(id.URL)] = id
	return nil
}

func (s *MemoryTrustStore) DeleteServerIdentity(_ context.Context, serverURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pins, normalizeURL(serverURL))
	return nil
}

// Len returns the number of pins.
func (s *MemoryTrustStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pins)
}

var _ domain.TrustStore = (*MemoryTrustStore)(nil)
