package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"sealrpc/internal/domain"
)

// DefaultRedisPrefix namespaces pin keys.
const DefaultRedisPrefix = "sealrpc:trust:"

// RedisTrustStore keeps one JSON-encoded pin per key in redis.
type RedisTrustStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisTrustStore wraps rdb. An empty prefix selects DefaultRedisPrefix.
func NewRedisTrustStore(rdb redis.UniversalClient, prefix string) *RedisTrustStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisTrustStore{rdb: rdb, prefix: prefix}
}

func (s *RedisTrustStore) key(serverURL string) string {
	return s.prefix + normalizeURL(serverURL)
}

func (s *RedisTrustStore) LoadServerIdentity(
	ctx context.Context,
	serverURL string,
) (domain.ServerIdentity, bool, error) {
	b, err := s.rdb.Get(ctx, s.key(serverURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ServerIdentity{}, false, nil
	}
	if err != nil {
		return domain.ServerIdentity{}, false, err
	}
	var id domain.ServerIdentity
	if err := json.Unmarshal(b, &id); err != nil {
		return domain.ServerIdentity{}, false, err
	}
	return id, true, nil
}

func (s *RedisTrustStore) SaveServerIdentity(ctx context.Context, id domain.ServerIdentity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(id.URL), b, 0).Err()
}

func (s *RedisTrustStore) DeleteServerIdentity(ctx context.Context, serverURL string) error {
	return s.rdb.Del(ctx, s.key(serverURL)).Err()
}

var _ domain.TrustStore = (*RedisTrustStore)(nil)
