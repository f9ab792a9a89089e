package httpgw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kinebilan/mobile-core/internal/errors"
)

func TestGateway_Authenticate_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "t-1",
			"user":  map[string]any{"id": "u1", "nom": "Durand"},
		})
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	creds, err := g.Authenticate(context.Background(), "a@b.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, map[string]string{"email": "a@b.com", "password": "secret"}, gotBody)
	assert.Equal(t, "t-1", creds.Token)
	assert.Equal(t, "u1", creds.User["id"])
	assert.True(t, creds.Valid())
}

func TestGateway_Authenticate_StructuredRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	_, err := g.Authenticate(context.Background(), "a@b.com", "wrong")

	require.Error(t, err)
	assert.True(t, apperrors.IsRejected(err))
	assert.Equal(t, "Invalid credentials", apperrors.UserMessage(err, "fallback"))
}

func TestGateway_Authenticate_RejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	_, err := g.Authenticate(context.Background(), "a@b.com", "secret")

	require.Error(t, err)
	assert.True(t, apperrors.IsRejected(err))
	assert.Contains(t, err.Error(), "502")
}

func TestGateway_Authenticate_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	_, err := g.Authenticate(context.Background(), "a@b.com", "secret")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnreachable(err))
}

func TestGateway_InvalidateSession(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	require.NoError(t, g.InvalidateSession(context.Background()))
	assert.Equal(t, "/auth/logout", gotPath)
}

func TestGateway_RequestPasswordReset(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	require.NoError(t, g.RequestPasswordReset(context.Background(), "a@b.com"))
	assert.Equal(t, "/auth/forgot-password", gotPath)
	assert.Equal(t, map[string]string{"email": "a@b.com"}, gotBody)
}

func TestGateway_ResetPassword(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL})
	require.NoError(t, g.ResetPassword(context.Background(), "rt-1", "newpass"))
	assert.Equal(t, map[string]string{"token": "rt-1", "new_password": "newpass"}, gotBody)
}

func TestGateway_TrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := NewGateway(GatewayOptions{BaseURL: srv.URL + "/"})
	require.NoError(t, g.InvalidateSession(context.Background()))
	assert.Equal(t, "/auth/logout", gotPath)
}
