package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/coachr/internal/coach"
)

func testSession() *coach.Session {
	return coach.NewSessionFromContext("AI should be regulated", "Your link is weak.", []coach.ChatMessage{
		{Role: coach.RoleUser, Content: "How is my link?"},
		{Role: coach.RoleCoach, Content: "Weak."},
	})
}

func TestMemoryStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := testSession()

	require.NoError(t, store.Save(ctx, s))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Topic, got.Topic)
	assert.Equal(t, s.Context, got.Context)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Weak.", got.Messages[1].Content)
	assert.Equal(t, 1, got.Messages[1].Index)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := testSession()
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	got.Reset()

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, again.Messages, 2)
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	_, err := store.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, uuid.New()), ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := testSession()
	require.NoError(t, store.Save(ctx, s))

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	s := testSession()
	require.NoError(t, store.Save(ctx, s))

	clock = clock.Add(30 * time.Second)
	_, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	// Saving refreshes the TTL.
	require.NoError(t, store.Save(ctx, s))
	clock = clock.Add(45 * time.Second)
	_, err = store.Get(ctx, s.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	require.NoError(t, store.Save(ctx, testSession()))
	require.NoError(t, store.Save(ctx, testSession()))
	clock = clock.Add(2 * time.Minute)
	fresh := testSession()
	require.NoError(t, store.Save(ctx, fresh))

	assert.Equal(t, 2, store.Sweep())
	_, err := store.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s := testSession()
	require.NoError(t, store.Save(ctx, s))
	store.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	_, err := store.Get(ctx, s.ID)
	assert.NoError(t, err)
}
