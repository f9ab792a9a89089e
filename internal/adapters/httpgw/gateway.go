package httpgw

// Package httpgw implements the auth gateway port over the KineBilan REST
// backend. Structured backend rejections ({"error": "..."} bodies) surface as
// errors.Rejected so the session manager can show them verbatim; everything
// else is an unreachable-style transport failure.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
	apperrors "github.com/kinebilan/mobile-core/internal/errors"
	"github.com/kinebilan/mobile-core/internal/ports"
)

const defaultTimeout = 15 * time.Second

// GatewayOptions groups dependencies for Gateway.
type GatewayOptions struct {
	// BaseURL is the API root, e.g. "https://api.kinebilan.fr/api".
	BaseURL string

	// Client is the HTTP client to use; wrap its transport with
	// NewBearerTransport so authenticated calls carry the session token.
	// Defaults to a plain client with a 15s timeout.
	Client *http.Client

	Logger *slog.Logger
}

// Gateway is the net/http implementation of ports.AuthGateway.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.AuthGateway = (*Gateway)(nil)

// NewGateway constructs a Gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// credentialsResponse is the wire shape of a successful login/register.
type credentialsResponse struct {
	Token string         `json:"token"`
	User  map[string]any `json:"user"`
}

// rejectionBody is the wire shape of a structured backend rejection.
type rejectionBody struct {
	Error string `json:"error"`
}

func (g *Gateway) Authenticate(ctx context.Context, email, password string) (domainsession.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var resp credentialsResponse
	if err := g.post(ctx, "/auth/login", body, &resp); err != nil {
		return domainsession.Credentials{}, err
	}
	return domainsession.Credentials{Token: resp.Token, User: resp.User}, nil
}

func (g *Gateway) InvalidateSession(ctx context.Context) error {
	return g.post(ctx, "/auth/logout", nil, nil)
}

func (g *Gateway) Register(ctx context.Context, profile domainsession.Profile) (domainsession.Credentials, error) {
	var resp credentialsResponse
	if err := g.post(ctx, "/auth/register", profile, &resp); err != nil {
		return domainsession.Credentials{}, err
	}
	return domainsession.Credentials{Token: resp.Token, User: resp.User}, nil
}

func (g *Gateway) RequestPasswordReset(ctx context.Context, email string) error {
	return g.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (g *Gateway) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "new_password": newPassword}
	return g.post(ctx, "/auth/reset-password", body, nil)
}

// post issues a JSON POST and decodes a 2xx response into out (when non-nil).
// Non-2xx responses become Rejected errors carrying the server message.
func (g *Gateway) post(ctx context.Context, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return apperrors.Unreachable("server unreachable", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return apperrors.Unreachable("read response", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return g.rejection(res.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode response body")
	}
	return nil
}

// rejection maps a non-2xx response to a Rejected error, preferring the
// server-supplied message.
func (g *Gateway) rejection(status int, raw []byte) error {
	var body rejectionBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return apperrors.Rejected(body.Error)
	}
	g.logger.Debug("rejection without structured message", "status", status)
	return apperrors.Rejectedf("The server rejected the request (HTTP %d).", status)
}
