package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// RedisStore keeps session state in Redis. Credential keys carry the durable
// TTL; identity keys carry the shorter session TTL, mirroring the two
// browser-storage tiers the web client uses.
type RedisStore struct {
	client      *redis.Client
	credTTL     time.Duration
	identityTTL time.Duration
}

// NewRedisStore builds a store over an existing client.
func NewRedisStore(client *redis.Client, credTTL, identityTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, credTTL: credTTL, identityTTL: identityTTL}
}

func credKey(sid string) string     { return "session:cred:" + sid }
func identityKey(sid string) string { return "session:identity:" + sid }

// SaveCredentials stores the token pair under the durable tier.
func (s *RedisStore) SaveCredentials(ctx context.Context, sid string, creds domain.Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credKey(sid), payload, s.credTTL).Err()
}

// LoadCredentials fetches the token pair.
func (s *RedisStore) LoadCredentials(ctx context.Context, sid string) (*domain.Credentials, error) {
	raw, err := s.client.Get(ctx, credKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var creds domain.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// SaveIdentity stores the decoded identity snapshot under the session tier.
func (s *RedisStore) SaveIdentity(ctx context.Context, sid string, identity *domain.Identity) error {
	identity.SyncRoleNames()
	payload, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, identityKey(sid), payload, s.identityTTL).Err()
}

// LoadIdentity fetches the identity snapshot.
func (s *RedisStore) LoadIdentity(ctx context.Context, sid string) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, identityKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, err
	}
	identity.NormalizeRoles()
	return &identity, nil
}

// Delete removes both tiers for the session.
func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, credKey(sid), identityKey(sid)).Err()
}
