package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRevocationStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationStore(client), server
}

func TestRevocationStore_RevokeAndCheck(t *testing.T) {
	store, server := newTestRevocationStore(t)
	ctx := context.Background()
	loginID := uuid.New()

	revoked, err := store.IsRevoked(ctx, loginID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, loginID, time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, loginID)
	require.NoError(t, err)
	assert.True(t, revoked)

	server.FastForward(2 * time.Hour)

	revoked, err = store.IsRevoked(ctx, loginID)
	require.NoError(t, err)
	assert.False(t, revoked, "revocation should expire with the token")
}

func TestRevocationStore_SkipsExpiredTokens(t *testing.T) {
	store, server := newTestRevocationStore(t)
	loginID := uuid.New()

	require.NoError(t, store.Revoke(context.Background(), loginID, time.Now().Add(-time.Minute)))
	assert.False(t, server.Exists(revokedLoginPrefix+loginID.String()))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
