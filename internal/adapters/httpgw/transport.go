package httpgw

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kinebilan/mobile-core/internal/ports"
)

// BearerTransport injects the current session token as a bearer credential on
// every outgoing request, plus a per-request id for correlation. The core
// only supplies the token through ports.TokenSource; this transport performs
// the injection.
type BearerTransport struct {
	tokens ports.TokenSource
	base   http.RoundTripper
}

var _ http.RoundTripper = (*BearerTransport)(nil)

// NewBearerTransport wraps base (nil means http.DefaultTransport) with bearer
// injection from tokens.
func NewBearerTransport(tokens ports.TokenSource, base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{tokens: tokens, base: base}
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if token := t.tokens.Token(); token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	if clone.Header.Get("X-Request-Id") == "" {
		clone.Header.Set("X-Request-Id", uuid.NewString())
	}
	return t.base.RoundTrip(clone)
}
