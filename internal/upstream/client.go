// Package upstream is the HTTP client for the remote PharmService REST API.
// The transport attaches bearer credentials to every call except the auth
// endpoints and performs the single 401 refresh-and-replay cycle.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/pharmstock-gateway/internal/config"
	apperrors "github.com/spec-kit/pharmstock-gateway/pkg/util/errorutil"
)

// Client calls the PharmService REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the configured upstream. Credentials are
// attached later via UseCredentials once the session refresher exists (the
// refresher itself needs this client for the refresh exchange).
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	transport := &authTransport{next: http.DefaultTransport, logger: logger}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.RequestTimeout(),
			Transport: transport,
		},
		logger: logger,
	}
}

// UseCredentials wires the credential source into the transport.
func (c *Client) UseCredentials(source CredentialSource) {
	if t, ok := c.http.Transport.(*authTransport); ok {
		t.creds = source
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("decoding upstream response: %w", err))
	}
	return nil
}

// errorFromResponse surfaces the upstream's message verbatim under a code
// derived from the HTTP status.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := strings.TrimSpace(string(body))
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &apperrors.DomainError{
		Code:       codeForStatus(resp.StatusCode),
		Message:    message,
		HTTPStatus: resp.StatusCode,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	default:
		return "UPSTREAM_ERROR"
	}
}
