// Package auth implements staff login, logout and the token guard.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mergington/internal/metrics"
	"mergington/internal/session"
)

var (
	// ErrInvalidCredentials is returned when the username/password pair is unknown
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized is returned when a token is missing or does not map to a session
	ErrUnauthorized = errors.New("unauthorized")
)

// CredentialVerifier checks a username/password pair
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// Service defines the authentication service interface
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (string, error)
}

// service implements the Service interface
type service struct {
	credentials CredentialVerifier
	sessions    session.Manager
	logger      *slog.Logger
}

// NewService creates a new authentication service
func NewService(credentials CredentialVerifier, sessions session.Manager, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		credentials: credentials,
		sessions:    sessions,
		logger:      logger,
	}
}

// Login verifies the pair and issues a fresh session token
func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.credentials.Verify(username, password) {
		metrics.RecordLogin(metrics.OutcomeUnauthorized)
		return "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, username)
	if err != nil {
		metrics.RecordLogin(metrics.OutcomeError)
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	metrics.RecordLogin(metrics.OutcomeSuccess)
	s.refreshSessionGauge(ctx)
	s.logger.Info("Teacher logged in", "username", username)
	return token, nil
}

// Logout drops the session for token; unknown tokens are ignored
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.refreshSessionGauge(ctx)
	return nil
}

// Authenticate resolves token to the username that owns it
func (s *service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}
	return sess.Username, nil
}

func (s *service) refreshSessionGauge(ctx context.Context) {
	if n, err := s.sessions.Count(ctx); err == nil {
		metrics.SetActiveSessions(n)
	}
}
