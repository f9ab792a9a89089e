package session

// Package session contains simple hand-written test doubles for the session
// core's ports. These are lightweight and suitable for unit tests without
// codegen.

import (
	"context"
	"sync"
	"time"

	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
	apperrors "github.com/kinebilan/mobile-core/internal/errors"
	"github.com/kinebilan/mobile-core/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthGateway = (*GatewayDouble)(nil)
	_ ports.KeyValue    = (*MemoryKeyValue)(nil)
	_ ports.Prompter    = (*PromptRecorder)(nil)
)

// GatewayDouble simulates the auth gateway with deterministic defaults and
// per-method override hooks. Call counts are tracked for mutual-exclusion
// assertions.
type GatewayDouble struct {
	AuthenticateFunc         func(ctx context.Context, email, password string) (domainsession.Credentials, error)
	InvalidateSessionFunc    func(ctx context.Context) error
	RegisterFunc             func(ctx context.Context, profile domainsession.Profile) (domainsession.Credentials, error)
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, resetToken, newPassword string) error

	// DefaultCredentials is returned by Authenticate/Register when no
	// override is installed.
	DefaultCredentials domainsession.Credentials

	mu                sync.Mutex
	authenticateCalls int
	invalidateCalls   int
}

// NewGatewayDouble creates a GatewayDouble with sensible defaults.
func NewGatewayDouble() *GatewayDouble {
	return &GatewayDouble{
		DefaultCredentials: domainsession.Credentials{
			Token: "mock-token-1",
			User: domainsession.Profile{
				"id":    "mock-user-1",
				"nom":   "Durand",
				"email": "mock.user@example.com",
			},
		},
	}
}

func (g *GatewayDouble) Authenticate(ctx context.Context, email, password string) (domainsession.Credentials, error) {
	g.mu.Lock()
	g.authenticateCalls++
	g.mu.Unlock()

	if g.AuthenticateFunc != nil {
		return g.AuthenticateFunc(ctx, email, password)
	}
	return g.DefaultCredentials, nil
}

func (g *GatewayDouble) InvalidateSession(ctx context.Context) error {
	g.mu.Lock()
	g.invalidateCalls++
	g.mu.Unlock()

	if g.InvalidateSessionFunc != nil {
		return g.InvalidateSessionFunc(ctx)
	}
	return nil
}

func (g *GatewayDouble) Register(ctx context.Context, profile domainsession.Profile) (domainsession.Credentials, error) {
	if g.RegisterFunc != nil {
		return g.RegisterFunc(ctx, profile)
	}
	creds := g.DefaultCredentials
	creds.User = creds.User.Merge(profile)
	return creds, nil
}

func (g *GatewayDouble) RequestPasswordReset(ctx context.Context, email string) error {
	if g.RequestPasswordResetFunc != nil {
		return g.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

func (g *GatewayDouble) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if g.ResetPasswordFunc != nil {
		return g.ResetPasswordFunc(ctx, resetToken, newPassword)
	}
	return nil
}

// AuthenticateCalls returns how many times Authenticate was invoked.
func (g *GatewayDouble) AuthenticateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticateCalls
}

// InvalidateCalls returns how many times InvalidateSession was invoked.
func (g *GatewayDouble) InvalidateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.invalidateCalls
}

// RejectingGateway returns a GatewayDouble whose Authenticate rejects with
// the given server message.
func RejectingGateway(message string) *GatewayDouble {
	g := NewGatewayDouble()
	g.AuthenticateFunc = func(context.Context, string, string) (domainsession.Credentials, error) {
		return domainsession.Credentials{}, apperrors.Rejected(message)
	}
	return g
}

// BlockingGateway returns a GatewayDouble whose Authenticate signals started
// and then blocks until release is closed. Used to hold a login in flight.
func BlockingGateway(started chan<- struct{}, release <-chan struct{}) *GatewayDouble {
	g := NewGatewayDouble()
	creds := g.DefaultCredentials
	g.AuthenticateFunc = func(context.Context, string, string) (domainsession.Credentials, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
		return creds, nil
	}
	return g
}

// MemoryKeyValue is an in-memory ports.KeyValue with optional fault
// injection.
type MemoryKeyValue struct {
	mu   sync.Mutex
	data map[string]string

	// GetErr/SetErr/DeleteErr, when non-nil, are returned by the matching
	// operation to simulate storage faults.
	GetErr    error
	SetErr    error
	DeleteErr error

	gets, sets, deletes int
}

// NewMemoryKeyValue creates an empty in-memory store.
func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{data: make(map[string]string)}
}

func (s *MemoryKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryKeyValue) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.SetErr != nil {
		return s.SetErr
	}
	s.data[key] = value
	return nil
}

func (s *MemoryKeyValue) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.data, key)
	return nil
}

// Put seeds a key without going through fault injection.
func (s *MemoryKeyValue) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Len returns the number of stored keys.
func (s *MemoryKeyValue) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Gets returns the number of Get calls, fault-injected ones included.
func (s *MemoryKeyValue) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// Alert is one recorded alert prompt.
type Alert struct {
	Title   string
	Message string
}

// PromptRecorder records alerts and auto-answers confirmations.
type PromptRecorder struct {
	mu     sync.Mutex
	alerts []Alert

	// AnswerConfirm decides whether Confirm dispatches OnConfirm (true) or
	// OnCancel (false).
	AnswerConfirm bool

	confirms []ports.ConfirmationRequest
}

// NewPromptRecorder creates a recorder that confirms by default.
func NewPromptRecorder() *PromptRecorder {
	return &PromptRecorder{AnswerConfirm: true}
}

func (p *PromptRecorder) Alert(title, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, Alert{Title: title, Message: message})
}

func (p *PromptRecorder) Confirm(req ports.ConfirmationRequest) {
	p.mu.Lock()
	p.confirms = append(p.confirms, req)
	answer := p.AnswerConfirm
	p.mu.Unlock()

	if answer {
		if req.OnConfirm != nil {
			req.OnConfirm()
		}
		return
	}
	if req.OnCancel != nil {
		req.OnCancel()
	}
}

// Alerts returns the recorded alert prompts.
func (p *PromptRecorder) Alerts() []Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Alert, len(p.alerts))
	copy(out, p.alerts)
	return out
}

// Confirms returns the recorded confirmation requests.
func (p *PromptRecorder) Confirms() []ports.ConfirmationRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.ConfirmationRequest, len(p.confirms))
	copy(out, p.confirms)
	return out
}
