package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/config"
	"github.com/spec-kit/pharmstock-gateway/internal/session"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

type fakeCredentialSource struct {
	token        string
	renewed      string
	refreshErr   error
	refreshCalls atomic.Int32
}

func (f *fakeCredentialSource) AccessToken(context.Context) (string, error) {
	return f.token, nil
}

func (f *fakeCredentialSource) RefreshAccess(context.Context) (string, error) {
	f.refreshCalls.Add(1)
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.renewed, nil
}

func newTestClient(t *testing.T, handler http.Handler, creds CredentialSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.UpstreamConfig{BaseURL: srv.URL, RequestTimeoutSeconds: 5}, zap.NewNop())
	client.UseCredentials(creds)
	return client
}

func TestAuthPathsCarryNoAuthorization(t *testing.T) {
	var sawAuth atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		_ = json.NewEncoder(w).Encode(AuthPayload{Token: "t", RefreshToken: "r"})
	})
	client := newTestClient(t, handler, &fakeCredentialSource{token: "access-1"})

	_, err := client.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	access, refresh, err := client.RefreshToken(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "t", access)
	assert.Equal(t, "r", refresh)

	assert.False(t, sawAuth.Load(), "auth endpoints never see a bearer token")
}

func TestBearerAttachedToAPIRequests(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, &fakeCredentialSource{token: "access-1"})

	_, err := client.ListStock(context.Background(), StockFilter{})
	require.NoError(t, err)
}

func TestRoundTripLeavesCallerRequestUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	transport := &authTransport{
		next:   http.DefaultTransport,
		creds:  &fakeCredentialSource{token: "access-1"},
		logger: zap.NewNop(),
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/medicines", nil)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"), "the bearer goes on a clone, not the caller's request")
}

func TestUnauthorizedTriggersSingleRefreshAndReplay(t *testing.T) {
	var requests atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	creds := &fakeCredentialSource{token: "access-1", renewed: "access-2"}
	client := newTestClient(t, handler, creds)

	_, err := client.ListReservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), creds.refreshCalls.Load())
	assert.Equal(t, int32(2), requests.Load(), "original plus exactly one replay")
}

func TestReplayedRequestResendsBody(t *testing.T) {
	var bodies []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		bodies = append(bodies, r.FormValue("stockId"))
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "res-1"})
	})
	creds := &fakeCredentialSource{token: "access-1", renewed: "access-2"}
	client := newTestClient(t, handler, creds)

	_, err := client.CreateReservation(context.Background(), CreateReservationInput{StockID: "st-1", UserID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"st-1", "st-1"}, bodies, "replay carries the same payload")
}

func TestUnauthorizedWithoutRefreshTokenKeeps401(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	})
	creds := &fakeCredentialSource{token: "access-1", refreshErr: session.ErrNoRefreshToken}
	client := newTestClient(t, handler, creds)

	_, err := client.ListReservations(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHENTICATED"), "the original 401 is surfaced")
	assert.Equal(t, int32(1), creds.refreshCalls.Load())
}

func TestRefreshFailurePropagates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	refreshErr := apperrors.NewUnauthenticated("token refresh failed")
	creds := &fakeCredentialSource{token: "access-1", refreshErr: refreshErr}
	client := newTestClient(t, handler, creds)

	_, err := client.ListReservations(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHENTICATED"))
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "token refresh failed", domainErr.Message, "the refresh error replaces the original 401")
}

func TestUpstreamErrorMessageSurfacedVerbatim(t *testing.T) {
	t.Run("flat message envelope", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Reserva ja cancelada"})
		})
		client := newTestClient(t, handler, &fakeCredentialSource{token: "access-1"})

		_, err := client.UpdateReservationStatus(context.Background(), "res-1", "cancelado", "sem estoque")
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Equal(t, "Reserva ja cancelada", domainErr.Message)
	})

	t.Run("nested error envelope", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"estoque insuficiente"}}`))
		})
		client := newTestClient(t, handler, &fakeCredentialSource{token: "access-1"})

		_, err := client.ListReservations(context.Background())
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Equal(t, "estoque insuficiente", domainErr.Message)
	})

	t.Run("empty body falls back to status text", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		client := newTestClient(t, handler, &fakeCredentialSource{token: "access-1"})

		_, err := client.GetReservation(context.Background(), "missing")
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.Equal(t, http.StatusText(http.StatusNotFound), domainErr.Message)
	})
}

func TestTransportFailureMapsToUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(config.UpstreamConfig{BaseURL: srv.URL, RequestTimeoutSeconds: 1}, zap.NewNop())
	client.UseCredentials(&fakeCredentialSource{token: "access-1"})

	_, err := client.ListReservations(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UPSTREAM_UNAVAILABLE"))
}
