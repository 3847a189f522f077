package session

import (
	"context"
	"sync"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// MemoryStore is an in-process Store used in tests and local development.
type MemoryStore struct {
	mu         sync.RWMutex
	creds      map[string]domain.Credentials
	identities map[string]domain.Identity
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		creds:      make(map[string]domain.Credentials),
		identities: make(map[string]domain.Identity),
	}
}

// SaveCredentials stores the token pair.
func (s *MemoryStore) SaveCredentials(_ context.Context, sid string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[sid] = creds
	return nil
}

// LoadCredentials fetches the token pair.
func (s *MemoryStore) LoadCredentials(_ context.Context, sid string) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.creds[sid]
	if !ok {
		return nil, ErrNotFound
	}
	out := creds
	return &out, nil
}

// SaveIdentity stores the identity snapshot.
func (s *MemoryStore) SaveIdentity(_ context.Context, sid string, identity *domain.Identity) error {
	identity.SyncRoleNames()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[sid] = *identity
	return nil
}

// LoadIdentity fetches the identity snapshot.
func (s *MemoryStore) LoadIdentity(_ context.Context, sid string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[sid]
	if !ok {
		return nil, ErrNotFound
	}
	out := identity
	out.NormalizeRoles()
	return &out, nil
}

// Delete removes both tiers for the session.
func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, sid)
	delete(s.identities, sid)
	return nil
}
