package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/konnektoren/tonpay/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestRedisAddress returns REDIS_TEST_ADDRESS, or localhost:6379
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func testSession() types.WalletSession {
	return types.WalletSession{
		Address:     "EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go",
		Chain:       types.NetworkTestnet,
		Connected:   true,
		ConnectedAt: time.Unix(1_700_000_000, 0).UTC(),
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := uuid.NewString()

	_, err := s.Load(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, key, testSession()))

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, testSession().Address, got.Address)
	assert.Equal(t, types.NetworkTestnet, got.Chain)
	assert.True(t, got.Connected)
	assert.True(t, testSession().ConnectedAt.Equal(got.ConnectedAt))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Load(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)

	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Save(context.Background(), "k", testSession()), ErrClosed)
}

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: "test:",
		TTL:       time.Minute,
	})
	if err != nil {
		t.Skipf("Redis not available at %s: %v", getTestRedisAddress(), err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestFromConfig(t *testing.T) {
	s, err := FromConfig(context.Background(), types.SessionConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = FromConfig(context.Background(), types.SessionConfig{Store: types.SessionStoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = FromConfig(context.Background(), types.SessionConfig{Store: types.SessionStoreRedis})
	require.ErrorIs(t, err, types.ErrConfig)

	_, err = FromConfig(context.Background(), types.SessionConfig{Store: "etcd"})
	require.ErrorIs(t, err, types.ErrConfig)
}
