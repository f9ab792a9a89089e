// Package mocks provides mock implementations for testing the session core.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports the session manager depends on. Hand-written doubles for simpler
// cases live in internal/mocks/session.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	gw := mocks.NewMockAuthGateway(ctrl)
//	gw.EXPECT().Authenticate(gomock.Any(), "a@b.com", "secret").Return(creds, nil)
package mocks

// Generate mock for AuthGateway interface from internal/ports.
// This creates MockAuthGateway with methods for all AuthGateway interface methods:
// Authenticate, InvalidateSession, Register, RequestPasswordReset, ResetPassword
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_gateway_mock.go github.com/kinebilan/mobile-core/internal/ports AuthGateway
