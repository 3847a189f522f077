// Package session owns the authentication lifecycle on the gateway side:
// credential persistence, identity snapshots, restore-on-load semantics and
// the single-flight refresh coordinator. The Manager is the only mutator of
// the underlying store; nothing else writes token values.
package session

import (
	"context"
	"errors"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
)

// ErrNotFound signals a missing store entry.
var ErrNotFound = errors.New("session entry not found")

// Store persists session state in two tiers: durable credentials (survive
// reload, long TTL) and the session-scoped identity snapshot (short TTL,
// rebuilt from the token when absent).
type Store interface {
	SaveCredentials(ctx context.Context, sid string, creds domain.Credentials) error
	LoadCredentials(ctx context.Context, sid string) (*domain.Credentials, error)
	SaveIdentity(ctx context.Context, sid string, identity *domain.Identity) error
	LoadIdentity(ctx context.Context, sid string) (*domain.Identity, error)
	Delete(ctx context.Context, sid string) error
}
