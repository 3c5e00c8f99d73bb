// Package session provides the token table backing staff logins.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

// TokenBytes is the amount of randomness in a session token (256 bits)
const TokenBytes = 32

// maxTokenAttempts bounds retries on the astronomically unlikely token collision
const maxTokenAttempts = 3

var (
	// ErrSessionNotFound is returned when a token does not map to a session
	ErrSessionNotFound = errors.New("session not found")
	// ErrTokenGeneration is returned when no unique token could be produced
	ErrTokenGeneration = errors.New("failed to generate session token")
)

// Manager defines the interface for session management operations
type Manager interface {
	Create(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Count(ctx context.Context) (int, error)
}

// manager implements Manager interface
type manager struct {
	store   Store
	entropy io.Reader
	now     func() time.Time
}

// NewManager creates a new session manager
func NewManager(store Store) Manager {
	return &manager{
		store:   store,
		entropy: rand.Reader,
		now:     time.Now,
	}
}

// Create issues a new token for username and returns it
func (m *manager) Create(ctx context.Context, username string) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := m.newToken()
		if err != nil {
			return "", err
		}

		added, err := m.store.Add(ctx, Session{
			Token:     token,
			Username:  username,
			CreatedAt: m.now().UTC(),
		})
		if err != nil {
			return "", fmt.Errorf("failed to store session: %w", err)
		}
		if added {
			return token, nil
		}
	}
	return "", ErrTokenGeneration
}

// Get retrieves the session for token
func (m *manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	sess, ok, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Delete removes a session; deleting an unknown token is not an error
func (m *manager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// Count returns the number of live sessions
func (m *manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

func (m *manager) newToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(m.entropy, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}
