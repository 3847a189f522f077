package upstream

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/session"
)

// CredentialSource resolves and renews the access token for the session
// attached to a request context. Implemented by session.Refresher.
type CredentialSource interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshAccess(ctx context.Context) (string, error)
}

// authPaths never carry an Authorization header and are never retried.
var authPaths = map[string]struct{}{
	"/auth/login":         {},
	"/auth/register":      {},
	"/auth/refresh-token": {},
}

func isAuthPath(path string) bool {
	_, ok := authPaths[strings.TrimRight(path, "/")]
	return ok
}

// authTransport attaches bearer credentials on the way out and performs at
// most one refresh-and-replay cycle on a 401 response. Refresh attempts for
// the same session are deduplicated by the credential source.
type authTransport struct {
	next   http.RoundTripper
	creds  CredentialSource
	logger *zap.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthPath(req.URL.Path) || t.creds == nil {
		return t.next.RoundTrip(req)
	}

	token, err := t.creds.AccessToken(req.Context())
	if err != nil {
		return nil, err
	}
	// RoundTrip must not mutate the caller's request.
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.next.RoundTrip(authed)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	renewed, refreshErr := t.creds.RefreshAccess(req.Context())
	if refreshErr != nil {
		if errors.Is(refreshErr, session.ErrNoRefreshToken) {
			// Nothing to renew with: the original 401 stands.
			return resp, nil
		}
		resp.Body.Close()
		return nil, refreshErr
	}
	resp.Body.Close()

	retry, err := cloneForRetry(req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set("Authorization", "Bearer "+renewed)
	t.logger.Debug("replaying request after token refresh", zap.String("path", req.URL.Path))
	return t.next.RoundTrip(retry)
}

// cloneForRetry rebuilds the request body via GetBody so the single replay
// sends the same payload.
func cloneForRetry(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return retry, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}
