package httpgw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokens is a fixed ports.TokenSource for transport tests.
type staticTokens struct{ token string }

func (s staticTokens) Token() string { return s.token }

func TestBearerTransport_InjectsTokenWhenPresent(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewBearerTransport(staticTokens{token: "abc"}, nil)}
	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestBearerTransport_NoHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewBearerTransport(staticTokens{}, nil)}
	res, err := client.Get(srv.URL)
	require.NoError(t, err)
	res.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestBearerTransport_DoesNotMutateOriginalRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	client := &http.Client{Transport: NewBearerTransport(staticTokens{token: "abc"}, nil)}
	res, err := client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestBearerTransport_PreservesExistingRequestID(t *testing.T) {
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "fixed-id")

	client := &http.Client{Transport: NewBearerTransport(staticTokens{token: "abc"}, nil)}
	res, err := client.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "fixed-id", gotRequestID)
}
