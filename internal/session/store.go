package session

import (
	"context"
	"sync"
)

// Store defines the interface for session storage operations
type Store interface {
	// Add stores sess under its token. It returns false if the token is already taken.
	Add(ctx context.Context, sess Session) (bool, error)
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
	Count(ctx context.Context) (int, error)
}

// memoryStore keeps sessions for the lifetime of the process
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an in-process session store
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]Session),
	}
}

func (s *memoryStore) Add(_ context.Context, sess Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.Token]; exists {
		return false, nil
	}
	s.sessions[sess.Token] = sess
	return true, nil
}

func (s *memoryStore) Get(_ context.Context, token string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	return sess, ok, nil
}

func (s *memoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *memoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions), nil
}
