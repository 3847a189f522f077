package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/domain"
	"github.com/spec-kit/pharmstock-gateway/internal/identity"
	"github.com/spec-kit/pharmstock-gateway/internal/session"
	"github.com/spec-kit/pharmstock-gateway/internal/upstream"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// AuthAPI is the slice of the upstream client the auth flows need.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*upstream.AuthPayload, error)
	Register(ctx context.Context, input upstream.RegisterInput) (*upstream.AuthPayload, error)
	UpdateProfile(ctx context.Context, input upstream.ProfileInput) error
}

// TokenRefresher renews the access token for the session in context.
// Implemented by session.Refresher.
type TokenRefresher interface {
	RefreshAccess(ctx context.Context) (string, error)
}

// AuthService coordinates login, registration and session lifecycle.
type AuthService struct {
	api       AuthAPI
	sessions  *session.Manager
	refresher TokenRefresher
	logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(api AuthAPI, sessions *session.Manager, refresher TokenRefresher, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, refresher: refresher, logger: logger}
}

// Login authenticates against the upstream, decodes the issued token and
// opens a gateway session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	payload, err := s.api.Login(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return s.openSession(ctx, payload)
}

// Register creates an account upstream and opens a session from the issued
// token pair.
func (s *AuthService) Register(ctx context.Context, input upstream.RegisterInput) (string, *domain.Identity, error) {
	payload, err := s.api.Register(ctx, input)
	if err != nil {
		return "", nil, err
	}
	return s.openSession(ctx, payload)
}

func (s *AuthService) openSession(ctx context.Context, payload *upstream.AuthPayload) (string, *domain.Identity, error) {
	id, err := identity.Decode(payload.Token)
	if err != nil {
		return "", nil, apperrors.NewUnauthenticated("issued token undecodable")
	}

	sid := uuid.NewString()
	creds := domain.Credentials{
		AccessToken:  payload.Token,
		RefreshToken: payload.RefreshToken,
	}
	if err := s.sessions.Persist(ctx, sid, creds, id); err != nil {
		return "", nil, err
	}
	s.logger.Info("session opened", zap.String("user_id", id.UserID))
	return sid, id, nil
}

// Logout clears the session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.sessions.Clear(ctx, sid)
}

// Refresh forces a token renewal for the session, bypassing the expiry check
// a normal restore would apply. Used when the browser knows its access token
// lapsed but still holds a session cookie.
func (s *AuthService) Refresh(ctx context.Context, sid string) (*domain.Identity, error) {
	ctx = session.WithID(ctx, sid)
	if _, err := s.refresher.RefreshAccess(ctx); err != nil {
		return nil, err
	}
	return s.sessions.Restore(ctx, sid)
}

// CurrentUser restores the identity for a session.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.Identity, error) {
	return s.sessions.Restore(ctx, sid)
}

// UpdateProfile pushes a profile edit upstream and merges it into the cached
// identity snapshot without waiting for a new token.
func (s *AuthService) UpdateProfile(ctx context.Context, sid string, patch domain.IdentityPatch) (*domain.Identity, error) {
	input := upstream.ProfileInput{}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Email != nil {
		input.Email = *patch.Email
	}
	if err := s.api.UpdateProfile(session.WithID(ctx, sid), input); err != nil {
		return nil, err
	}
	return s.sessions.UpdateIdentity(ctx, sid, patch)
}
