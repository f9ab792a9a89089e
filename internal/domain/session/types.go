package session

// Package session contains domain-level types for the authenticated session.
// It is pure and free of transport/storage concerns.

// Status represents the lifecycle state of the process-wide session.
// Keep string form for easy logging and persistence.
type Status string

const (
	// StatusUnknown is the initial state before restore has run.
	StatusUnknown Status = "unknown"
	// StatusRestoring is entered exactly once while stored credentials are read.
	StatusRestoring Status = "restoring"
	// StatusUnauthenticated means no valid session exists.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusAuthenticating means a login attempt is in flight.
	StatusAuthenticating Status = "authenticating"
	// StatusAuthenticated means a token and user snapshot are held.
	StatusAuthenticated Status = "authenticated"
	// StatusLoggingOut means a logout is in flight.
	StatusLoggingOut Status = "logging_out"
)

// Session is the authoritative in-memory authentication record.
// Exactly one exists per process; it is mutated only by the session manager.
type Session struct {
	Status    Status
	User      Profile
	Token     string
	LastError string
}

// Authenticated reports whether the session holds a live credential.
func (s Session) Authenticated() bool { return s.Status == StatusAuthenticated }

// Valid checks the core invariant: the token is non-empty iff the status is
// authenticated iff the user snapshot is non-nil.
func (s Session) Valid() bool {
	if s.Status == StatusAuthenticated {
		return s.Token != "" && s.User != nil
	}
	return s.Token == "" && s.User == nil
}

// Credentials is the durable record mirrored 1:1 with an authenticated
// session. It is written on successful login or profile update and deleted on
// logout or when a corrupt record is detected during restore.
type Credentials struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Valid reports whether the record can back an authenticated session: a token
// with no parseable user snapshot is corrupt.
func (c Credentials) Valid() bool {
	return c.Token != "" && c.User != nil
}
