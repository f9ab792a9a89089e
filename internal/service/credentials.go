package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainsession "github.com/kinebilan/mobile-core/internal/domain/session"
	"github.com/kinebilan/mobile-core/internal/ports"
)

// Storage keys mirror the on-device layout: the token and the user snapshot
// are stored as two independent entries, so a partial write leaves a
// detectably corrupt record rather than a half-parsed one.
const (
	keyToken = "token"
	keyUser  = "user"
)

// CredentialStore persists the credential record for the session manager over
// generic durable key/value storage. All operations are idempotent.
type CredentialStore struct {
	kv ports.KeyValue
}

// NewCredentialStore creates a CredentialStore backed by kv.
func NewCredentialStore(kv ports.KeyValue) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Read returns the stored credential record, or nil when none exists. A token
// whose user snapshot is missing or unparseable is returned with a nil User so
// the caller can detect the corrupt record and clear it; "not found" is never
// an error.
func (s *CredentialStore) Read(ctx context.Context) (*domainsession.Credentials, error) {
	token, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	creds := &domainsession.Credentials{Token: token}

	raw, ok, err := s.kv.Get(ctx, keyUser)
	if err != nil {
		return nil, fmt.Errorf("read user snapshot: %w", err)
	}
	if !ok {
		return creds, nil
	}

	var user domainsession.Profile
	if unmarshalErr := json.Unmarshal([]byte(raw), &user); unmarshalErr != nil {
		// Corrupt snapshot: surface the token-only record, not an error.
		return creds, nil
	}
	creds.User = user
	return creds, nil
}

// Write persists the record. The user snapshot is stored as JSON.
func (s *CredentialStore) Write(ctx context.Context, creds domainsession.Credentials) error {
	if creds.Token == "" {
		return errors.New("credential record requires a token")
	}

	data, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}

	if err := s.kv.Set(ctx, keyToken, creds.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.kv.Set(ctx, keyUser, string(data)); err != nil {
		return fmt.Errorf("write user snapshot: %w", err)
	}
	return nil
}

// Clear removes the record. Clearing an empty store is a no-op.
func (s *CredentialStore) Clear(ctx context.Context) error {
	tokenErr := s.kv.Delete(ctx, keyToken)
	userErr := s.kv.Delete(ctx, keyUser)
	if tokenErr != nil || userErr != nil {
		return fmt.Errorf("clear credentials: %w", errors.Join(tokenErr, userErr))
	}
	return nil
}
