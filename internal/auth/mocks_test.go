package auth

import (
	"context"
)

// Mock auth service for handler and middleware tests
type mockService struct {
	loginFunc        func(ctx context.Context, username, password string) (string, error)
	logoutFunc       func(ctx context.Context, token string) error
	authenticateFunc func(ctx context.Context, token string) (string, error)
}

func (m *mockService) Login(ctx context.Context, username, password string) (string, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password)
	}
	return "", ErrInvalidCredentials
}

func (m *mockService) Logout(ctx context.Context, token string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, token)
	}
	return nil
}

func (m *mockService) Authenticate(ctx context.Context, token string) (string, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, token)
	}
	return "", ErrUnauthorized
}

type staticVerifier map[string]string

func (v staticVerifier) Verify(username, password string) bool {
	pw, ok := v[username]
	return ok && pw == password
}
