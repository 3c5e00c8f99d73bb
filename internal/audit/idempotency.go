package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mergington/internal/activities"
)

// IdempotencyStore remembers which event IDs have already been journaled
type IdempotencyStore interface {
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// MarkAsProcessed returns false when another consumer got there first
	MarkAsProcessed(ctx context.Context, event activities.RosterEvent) (bool, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

const keyPrefix = "audit:roster:"

// RedisIdempotencyStore keeps deduplication records in Redis with a TTL
type RedisIdempotencyStore struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisIdempotencyStore creates a Redis backed idempotency store
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func buildKey(eventID string) string {
	return keyPrefix + eventID
}

// IsProcessed checks if an event has already been journaled
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	exists, err := s.redis.Exists(ctx, buildKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if event is processed: %w", err)
	}
	return exists > 0, nil
}

// MarkAsProcessed records the event with SET NX so only one consumer wins
func (s *RedisIdempotencyStore) MarkAsProcessed(ctx context.Context, event activities.RosterEvent) (bool, error) {
	metadata, err := json.Marshal(ProcessedMetadata{
		ProcessedAt: time.Now().UTC(),
		Activity:    event.Activity,
		Type:        event.Type,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	ok, err := s.redis.SetNX(ctx, buildKey(event.ID), metadata, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event as processed: %w", err)
	}

	if !ok {
		s.logger.Warn("Roster event already processed", "event_id", event.ID)
	}
	return ok, nil
}

// Count scans the live deduplication records
func (s *RedisIdempotencyStore) Count(ctx context.Context) (int64, error) {
	var cursor uint64
	var count int64

	for {
		keys, next, err := s.redis.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return count, fmt.Errorf("failed to scan keys: %w", err)
		}
		count += int64(len(keys))

		if next == 0 {
			return count, nil
		}
		cursor = next
	}
}

// Ping checks the Redis connection
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// MemoryIdempotencyStore is a process-local store for running without Redis.
// Records expire after ttl.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryIdempotencyStore creates an in-memory idempotency store
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// IsProcessed checks if an event has already been journaled
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.liveLocked(eventID), nil
}

// MarkAsProcessed records the event unless a live record exists
func (s *MemoryIdempotencyStore) MarkAsProcessed(_ context.Context, event activities.RosterEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.liveLocked(event.ID) {
		return false, nil
	}
	s.seen[event.ID] = s.now().Add(s.ttl)
	return true, nil
}

// Count returns the number of live records, dropping expired ones
func (s *MemoryIdempotencyStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, expires := range s.seen {
		if !now.Before(expires) {
			delete(s.seen, id)
		}
	}
	return int64(len(s.seen)), nil
}

// Ping always succeeds
func (s *MemoryIdempotencyStore) Ping(context.Context) error { return nil }

func (s *MemoryIdempotencyStore) liveLocked(eventID string) bool {
	expires, ok := s.seen[eventID]
	return ok && s.now().Before(expires)
}
