package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/pharmstock-gateway/internal/events"
	"github.com/spec-kit/pharmstock-gateway/internal/observability"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// ErrNoSession signals a request context without an attached session.
var ErrNoSession = errors.New("no session in context")

// ErrNoRefreshToken signals that renewal is impossible; the caller should
// propagate its original error instead.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// RefreshFunc performs the refresh-token exchange against the upstream API.
// It returns the new access token and, when rotated, a new refresh token.
type RefreshFunc func(ctx context.Context, refreshToken string) (accessToken, refreshToken2 string, err error)

// Refresher coordinates token renewal for the transport layer. Concurrent
// 401 handlers for the same session share a single in-flight refresh, so the
// refresh token is consumed once no matter how many requests raced into 401.
type Refresher struct {
	manager    *Manager
	exchange   RefreshFunc
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	group      singleflight.Group
}

// NewRefresher builds a refresher bound to the session manager.
func NewRefresher(manager *Manager, exchange RefreshFunc, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Refresher {
	return &Refresher{manager: manager, exchange: exchange, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// AccessToken returns the stored access token for the request's session.
func (r *Refresher) AccessToken(ctx context.Context) (string, error) {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}
	creds, err := r.manager.Credentials(ctx, sid)
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

// RefreshAccess renews the session's access token. On exchange failure the
// session state is cleared and the refresh error is returned; the caller must
// not fall back to the original request's error.
func (r *Refresher) RefreshAccess(ctx context.Context) (string, error) {
	sid, ok := IDFromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}

	token, err, _ := r.group.Do(sid, func() (any, error) {
		creds, err := r.manager.Credentials(ctx, sid)
		if err != nil {
			return "", err
		}
		if creds.RefreshToken == "" {
			return "", ErrNoRefreshToken
		}

		access, refresh, err := r.exchange(ctx, creds.RefreshToken)
		if err != nil {
			if clearErr := r.manager.Clear(ctx, sid); clearErr != nil {
				r.logger.Warn("failed to clear session after refresh failure", zap.Error(clearErr))
			}
			r.publishRevoked(ctx, sid, "token refresh failed")
			return "", &apperrors.DomainError{
				Code:       "UNAUTHENTICATED",
				Message:    "token refresh failed",
				HTTPStatus: http.StatusUnauthorized,
				Err:        err,
			}
		}

		if err := r.manager.ReplaceTokens(ctx, sid, access, refresh); err != nil {
			return "", err
		}
		r.metrics.RecordTokenRefresh()
		r.logger.Debug("access token refreshed", zap.String("session_id", sid))
		return access, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (r *Refresher) publishRevoked(ctx context.Context, sid, cause string) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSessionRevoked,
		Timestamp: time.Now(),
		Payload:   events.SessionRevokedPayload{SessionID: sid, Cause: cause},
	})
}
