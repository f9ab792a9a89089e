package ports

// Package ports defines interfaces (hexagonal ports) for the collaborators the
// session core depends on. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"

	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
)

// AuthGateway performs the remote authentication operations. Structured
// backend rejections surface as errors.Rejected; anything else is treated as
// a transport-level failure.
type AuthGateway interface {
	// Authenticate exchanges credentials for a token and user snapshot.
	Authenticate(ctx context.Context, email, password string) (domainsession.Credentials, error)

	// InvalidateSession revokes the current token server-side. Callers treat
	// failures as best-effort.
	InvalidateSession(ctx context.Context) error

	// Register creates an account and returns its initial credentials.
	Register(ctx context.Context, profile domainsession.Profile) (domainsession.Credentials, error)

	// RequestPasswordReset asks the backend to send a reset email.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword completes a reset flow using the emailed token.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

// KeyValue is generic durable storage keyed by string. Absent keys are
// reported via the bool, never as an error; errors mean underlying storage
// faults only.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ConfirmationRequest describes a user prompt gating a destructive operation.
// It has no persisted identity; it exists only for the duration of the prompt.
type ConfirmationRequest struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
	OnCancel     func()
}

// Prompter is the user-facing prompt surface: a titled message with one or
// two dismiss actions.
type Prompter interface {
	// Alert shows a dismissable error/notice prompt.
	Alert(title, message string)

	// Confirm presents the request and invokes OnConfirm or OnCancel
	// depending on the user's choice.
	Confirm(req ConfirmationRequest)
}

// TokenSource supplies the current session token to the transport layer,
// which performs the bearer-header injection. Empty string means no session.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }
