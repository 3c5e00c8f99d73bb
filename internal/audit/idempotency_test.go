package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mergington/internal/activities"
)

func TestMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Hour)
	event := activities.RosterEvent{ID: "evt-1", Activity: "Chess Club"}

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	require.False(t, processed)

	ok, err := store.MarkAsProcessed(ctx, event)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.MarkAsProcessed(ctx, event)
	require.NoError(t, err)
	require.False(t, ok)

	processed, err = store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	require.True(t, processed)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	_, err := store.MarkAsProcessed(ctx, activities.RosterEvent{ID: "evt-1"})
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)

	processed, err := store.IsProcessed(ctx, "evt-1")
	require.NoError(t, err)
	require.False(t, processed)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
