package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
	apperrors "github.com/kinebilan/mobile-core/internal/errors"
	"github.com/kinebilan/mobile-core/internal/ports"
	"golang.org/x/sync/singleflight"
)

// User-facing copy for session failures. Backend rejections override these;
// transport-level failures always surface MsgServerUnreachable.
const (
	MsgServerUnreachable   = "Unable to reach the server. Check your internet connection."
	MsgLoginInProgress     = "A login attempt is already in progress."
	MsgAlreadySignedIn     = "You are already signed in."
	MsgSessionBusy         = "The session is busy. Please try again."
	MsgCredentialsRequired = "Email and password are required."
	MsgNotSignedIn         = "You are not signed in."
	MsgMalformedResponse   = "The server returned an unexpected response. Please try again."
)

// Result is the outcome of a session operation. Expected failures (invalid
// credentials, unreachable server) resolve to Success=false with a displayable
// message rather than an error, so callers are not forced into error-based
// control flow for routine outcomes.
type Result struct {
	Success bool
	Message string
}

func failure(message string) Result { return Result{Message: message} }

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Gateway ports.AuthGateway
	Store   *CredentialStore
	Logger  *slog.Logger

	// IDPath is the JMESPath locating the identifier inside the opaque user
	// snapshot. Empty means session.DefaultIDPath.
	IDPath string
}

// SessionManager owns the single process-wide session state machine. It is
// the sole source of truth for "who is logged in": it reads and writes the
// credential store, calls the auth gateway, and publishes state snapshots to
// subscribers after every transition.
type SessionManager struct {
	gateway ports.AuthGateway
	store   *CredentialStore
	logger  *slog.Logger
	idPath  string

	mu        sync.Mutex
	state     domainsession.Session
	listeners map[int]func(domainsession.Session)
	nextSub   int

	restoring singleflight.Group
}

var _ ports.TokenSource = (*SessionManager)(nil)

// NewSessionManager constructs a SessionManager in the Unknown state.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		gateway:   opts.Gateway,
		store:     opts.Store,
		logger:    logger,
		idPath:    opts.IDPath,
		state:     domainsession.Session{Status: domainsession.StatusUnknown},
		listeners: make(map[int]func(domainsession.Session)),
	}
}

// Snapshot returns a read-only copy of the current session state.
func (m *SessionManager) Snapshot() domainsession.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() domainsession.Session {
	snap := m.state
	snap.User = m.state.User.Clone()
	return snap
}

// Token implements ports.TokenSource for the transport layer. It returns the
// raw token while one is held, including during logout so the best-effort
// invalidation call can still authenticate itself.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// UserID extracts the identifier from the current user snapshot, or empty
// string when signed out.
func (m *SessionManager) UserID() string {
	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()
	if user == nil {
		return ""
	}
	id, err := user.ID(m.idPath)
	if err != nil {
		return ""
	}
	return id
}

// Subscribe registers fn to be called with a state snapshot after every
// transition. The returned function removes the subscription.
func (m *SessionManager) Subscribe(fn func(domainsession.Session)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// notify publishes snap to all subscribers outside the lock.
func (m *SessionManager) notify(snap domainsession.Session) {
	m.mu.Lock()
	fns := make([]func(domainsession.Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// transition swaps the state under the lock and publishes the new snapshot.
func (m *SessionManager) transition(next domainsession.Session) domainsession.Session {
	m.mu.Lock()
	m.state = next
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)
	return snap
}

// Restore moves the session out of Unknown exactly once by reading the
// credential store. A valid record yields Authenticated without contacting
// the gateway; an absent, corrupt, or unreadable record yields
// Unauthenticated (storage faults fail open to signed-out, never to
// signed-in). Concurrent calls coalesce into a single storage read; calls
// after the first return the current snapshot.
func (m *SessionManager) Restore(ctx context.Context) domainsession.Session {
	snap, _, _ := m.restoring.Do("restore", func() (any, error) {
		return m.restore(ctx), nil
	})
	return snap.(domainsession.Session)
}

func (m *SessionManager) restore(ctx context.Context) domainsession.Session {
	m.mu.Lock()
	if m.state.Status != domainsession.StatusUnknown {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	m.state.Status = domainsession.StatusRestoring
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	creds, err := m.store.Read(ctx)
	switch {
	case err != nil:
		m.logger.WarnContext(ctx, "session restore: credential read failed, treating as signed out", "error", err)
		return m.transition(domainsession.Session{Status: domainsession.StatusUnauthenticated})

	case creds == nil:
		return m.transition(domainsession.Session{Status: domainsession.StatusUnauthenticated})

	case !creds.Valid():
		// Token with no parseable user snapshot: corrupt, never half-authenticate.
		m.logger.WarnContext(ctx, "session restore: corrupt credential record, clearing store")
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.WarnContext(ctx, "session restore: clear after corrupt record failed", "error", clearErr)
		}
		return m.transition(domainsession.Session{Status: domainsession.StatusUnauthenticated})

	default:
		return m.transition(domainsession.Session{
			Status: domainsession.StatusAuthenticated,
			Token:  creds.Token,
			User:   creds.User.Clone(),
		})
	}
}

// Login authenticates against the gateway and persists the credential record
// on success. A second call while a login is in flight is rejected
// immediately rather than queued, and an established session must be signed
// out before a new login is accepted.
func (m *SessionManager) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failure(MsgCredentialsRequired)
	}

	if res, ok := m.beginAuth(); !ok {
		return res
	}

	creds, err := m.gateway.Authenticate(ctx, email, password)
	if err != nil {
		return m.failLogin(ctx, err)
	}
	return m.completeLogin(ctx, creds)
}

// Register creates an account through the gateway and signs the new user in.
// It shares the state guard with Login.
func (m *SessionManager) Register(ctx context.Context, profile domainsession.Profile) Result {
	if len(profile) == 0 {
		return failure(MsgCredentialsRequired)
	}

	if res, ok := m.beginAuth(); !ok {
		return res
	}

	creds, err := m.gateway.Register(ctx, profile)
	if err != nil {
		return m.failLogin(ctx, err)
	}
	return m.completeLogin(ctx, creds)
}

// beginAuth moves the session into Authenticating. Login and Register share
// it. Only the signed-out state admits a new attempt: a concurrent attempt is
// rejected as in-progress, an established session is never replaced in place
// (sign out first), and restore or logout must settle before a login starts.
func (m *SessionManager) beginAuth() (Result, bool) {
	m.mu.Lock()
	switch m.state.Status {
	case domainsession.StatusAuthenticating:
		m.mu.Unlock()
		return failure(MsgLoginInProgress), false
	case domainsession.StatusAuthenticated:
		m.mu.Unlock()
		return failure(MsgAlreadySignedIn), false
	case domainsession.StatusUnknown, domainsession.StatusRestoring, domainsession.StatusLoggingOut:
		m.mu.Unlock()
		return failure(MsgSessionBusy), false
	}
	m.state = domainsession.Session{Status: domainsession.StatusAuthenticating}
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)
	return Result{}, true
}

// failLogin records the failure message and settles in Unauthenticated
// without touching the store.
func (m *SessionManager) failLogin(ctx context.Context, err error) Result {
	msg := apperrors.UserMessage(err, MsgServerUnreachable)
	if !apperrors.IsRejected(err) {
		m.logger.WarnContext(ctx, "login failed", "error", err)
	}
	m.transition(domainsession.Session{
		Status:    domainsession.StatusUnauthenticated,
		LastError: msg,
	})
	return failure(msg)
}

// completeLogin moves to Authenticated and persists the record. A persist
// failure is logged but does not fail the login: the in-memory session stays
// authoritative for the current process.
func (m *SessionManager) completeLogin(ctx context.Context, creds domainsession.Credentials) Result {
	if !creds.Valid() {
		m.transition(domainsession.Session{
			Status:    domainsession.StatusUnauthenticated,
			LastError: MsgMalformedResponse,
		})
		return failure(MsgMalformedResponse)
	}

	m.transition(domainsession.Session{
		Status: domainsession.StatusAuthenticated,
		Token:  creds.Token,
		User:   creds.User.Clone(),
	})

	if err := m.store.Write(ctx, creds); err != nil {
		m.logger.WarnContext(ctx, "persist credentials failed, session remains in-memory only", "error", err)
	}
	return Result{Success: true}
}

// Logout clears the session. The gateway invalidation is best-effort: the
// local session must be clearable even when the server is unreachable.
// Calling Logout while already Unauthenticated is a no-op.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	if m.state.Status == domainsession.StatusUnauthenticated {
		m.mu.Unlock()
		return
	}
	hadToken := m.state.Token != ""
	m.state.Status = domainsession.StatusLoggingOut
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	if hadToken {
		if err := m.gateway.InvalidateSession(ctx); err != nil {
			m.logger.WarnContext(ctx, "logout: server-side invalidation failed, continuing", "error", err)
		}
	}
	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "logout: clear credentials failed", "error", err)
	}

	m.transition(domainsession.Session{Status: domainsession.StatusUnauthenticated})
}

// UpdateProfile merges patch into the current user snapshot and persists the
// updated record. A persist failure is logged; the in-memory snapshot stays
// authoritative.
func (m *SessionManager) UpdateProfile(ctx context.Context, patch domainsession.Profile) Result {
	m.mu.Lock()
	if m.state.Status != domainsession.StatusAuthenticated {
		m.mu.Unlock()
		return failure(MsgNotSignedIn)
	}
	merged := m.state.User.Merge(patch)
	m.state.User = merged
	token := m.state.Token
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	if err := m.store.Write(ctx, domainsession.Credentials{Token: token, User: merged}); err != nil {
		m.logger.WarnContext(ctx, "persist profile update failed, session remains in-memory only", "error", err)
	}
	return Result{Success: true}
}

// RequestPasswordReset asks the backend to start a reset flow. No session
// state changes either way.
func (m *SessionManager) RequestPasswordReset(ctx context.Context, email string) Result {
	email = strings.TrimSpace(email)
	if email == "" {
		return failure(MsgCredentialsRequired)
	}
	if err := m.gateway.RequestPasswordReset(ctx, email); err != nil {
		return failure(apperrors.UserMessage(err, MsgServerUnreachable))
	}
	return Result{Success: true}
}

// ResetPassword completes a reset flow with the emailed token.
func (m *SessionManager) ResetPassword(ctx context.Context, resetToken, newPassword string) Result {
	if resetToken == "" || newPassword == "" {
		return failure(MsgCredentialsRequired)
	}
	if err := m.gateway.ResetPassword(ctx, resetToken, newPassword); err != nil {
		return failure(apperrors.UserMessage(err, MsgServerUnreachable))
	}
	return Result{Success: true}
}

// HandleSessionInvalid reacts to an explicit backend signal that the token is
// no longer valid: the local session is torn down as if Logout had been
// called, minus the gateway invalidation (the token is already dead).
func (m *SessionManager) HandleSessionInvalid(ctx context.Context) {
	m.mu.Lock()
	if m.state.Status != domainsession.StatusAuthenticated {
		m.mu.Unlock()
		return
	}
	m.state.Status = domainsession.StatusLoggingOut
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.notify(snap)

	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "session invalidation: clear credentials failed", "error", err)
	}
	m.transition(domainsession.Session{Status: domainsession.StatusUnauthenticated})
}
