package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/identity"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// Manager is the single source of truth for "who is the current user and are
// they still authenticated". All mutations of the session store funnel
// through it.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager builds a manager over the given store.
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Persist durably stores the credential pair and caches the derived identity
// snapshot. Credentials and identity are written separately: credentials for
// transport, identity for display and authorization, so the raw token is not
// re-decoded on every request.
func (m *Manager) Persist(ctx context.Context, sid string, creds domain.Credentials, id *domain.Identity) error {
	if err := m.store.SaveCredentials(ctx, sid, creds); err != nil {
		return err
	}
	return m.store.SaveIdentity(ctx, sid, id)
}

// Restore loads the identity for a session. A missing or invalid access
// token clears all stored state and reports unauthenticated; calling Restore
// again on the same session yields the same outcome. A valid token prefers
// the cached identity snapshot and falls back to decode-and-cache.
func (m *Manager) Restore(ctx context.Context, sid string) (*domain.Identity, error) {
	creds, err := m.store.LoadCredentials(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		_ = m.store.Delete(ctx, sid)
		return nil, apperrors.NewUnauthenticated("no stored credentials")
	}
	if err != nil {
		return nil, err
	}

	if !identity.Valid(creds.AccessToken) {
		if err := m.store.Delete(ctx, sid); err != nil {
			m.logger.Warn("failed to clear invalid session", zap.Error(err))
		}
		return nil, apperrors.NewUnauthenticated("access token expired or malformed")
	}

	cached, err := m.store.LoadIdentity(ctx, sid)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	decoded, decodeErr := identity.Decode(creds.AccessToken)
	if decodeErr != nil {
		_ = m.store.Delete(ctx, sid)
		return nil, apperrors.NewUnauthenticated("access token undecodable")
	}
	if err := m.store.SaveIdentity(ctx, sid, decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Clear removes both credential and identity storage. Used on logout and on
// irrecoverable refresh failure.
func (m *Manager) Clear(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, sid)
}

// UpdateIdentity merges a partial profile update into the cached identity
// without requiring a new token.
func (m *Manager) UpdateIdentity(ctx context.Context, sid string, patch domain.IdentityPatch) (*domain.Identity, error) {
	current, err := m.Restore(ctx, sid)
	if err != nil {
		return nil, err
	}
	patch.Apply(current)
	if err := m.store.SaveIdentity(ctx, sid, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Credentials exposes the stored token pair to the transport layer.
func (m *Manager) Credentials(ctx context.Context, sid string) (*domain.Credentials, error) {
	creds, err := m.store.LoadCredentials(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NewUnauthenticated("no stored credentials")
	}
	return creds, err
}

// ReplaceTokens persists a renewed credential pair after a refresh exchange.
// An empty refresh token keeps the previous one (the upstream may omit it).
func (m *Manager) ReplaceTokens(ctx context.Context, sid, accessToken, refreshToken string) error {
	creds, err := m.Credentials(ctx, sid)
	if err != nil {
		return err
	}
	creds.AccessToken = accessToken
	if refreshToken != "" {
		creds.RefreshToken = refreshToken
	}
	if err := m.store.SaveCredentials(ctx, sid, *creds); err != nil {
		return err
	}
	// The old snapshot may carry stale claims once the token changes.
	if decoded, decodeErr := identity.Decode(accessToken); decodeErr == nil {
		return m.store.SaveIdentity(ctx, sid, decoded)
	}
	return nil
}
