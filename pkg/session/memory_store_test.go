package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsuite/authcore/pkg/session"
)

func newTestSession(userID uuid.UUID, ttl time.Duration) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Username:    "alice",
		IP:          "203.0.113.1",
		UserAgent:   "Mozilla/5.0",
		Fingerprint: "abcdef0123456789abcdef0123456789",
		CSRFToken:   uuid.NewString(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestMemoryStore_SaveGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sess := newTestSession(uuid.New(), time.Hour)

	require.NoError(t, store.Save(context.Background(), sess))

	got, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.CSRFToken, got.CSRFToken)

	// The store hands back copies, not aliases.
	got.Username = "mutated"
	again, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	sess := newTestSession(uuid.New(), time.Hour)
	require.NoError(t, store.Save(context.Background(), sess))

	require.NoError(t, store.Delete(context.Background(), sess.ID, sess.UserID.String()))
	assert.Zero(t, store.Len())

	// Deleting again is not an error.
	require.NoError(t, store.Delete(context.Background(), sess.ID, sess.UserID.String()))
}

func TestMemoryStore_UserSessions(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	userID := uuid.New()

	for range 3 {
		require.NoError(t, store.Save(context.Background(), newTestSession(userID, time.Hour)))
	}
	require.NoError(t, store.Save(context.Background(), newTestSession(uuid.New(), time.Hour)))

	sessions, err := store.UserSessions(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
	for _, sess := range sessions {
		assert.Equal(t, userID, sess.UserID)
	}
}

func TestMemoryStore_UserSessionsSkipsExpired(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	userID := uuid.New()

	live := newTestSession(userID, time.Hour)
	require.NoError(t, store.Save(context.Background(), live))
	require.NoError(t, store.Save(context.Background(), newTestSession(userID, -time.Minute)))

	// An expired-but-unswept record never comes back; it is pruned, not
	// just skipped.
	sessions, err := store.UserSessions(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, live.ID, sessions[0].ID)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore()
	userID := uuid.New()

	live := newTestSession(userID, time.Hour)
	require.NoError(t, store.Save(context.Background(), live))
	require.NoError(t, store.Save(context.Background(), newTestSession(userID, -time.Minute)))
	require.NoError(t, store.Save(context.Background(), newTestSession(userID, -time.Hour)))

	count, err := store.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, store.Len())

	sessions, err := store.UserSessions(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, live.ID, sessions[0].ID)

	// Second sweep finds nothing.
	count, err = store.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
