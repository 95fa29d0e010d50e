package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/redis"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTempTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := redis.NewTempTokens(client)
	require.NoError(t, s.Ping(ctx))

	now := time.Now()
	tok := domain.TempToken{
		TokenHash: "fp-1",
		UserID:    "user-1",
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, s.CreateTempToken(ctx, tok))
	require.ErrorIs(t, s.CreateTempToken(ctx, tok), store.ErrAlreadyExists)

	ttl := mr.TTL("coursehub:2fa:temp:fp-1")
	assert.Greater(t, ttl, 4*time.Minute)

	got, err := s.GetTempToken(ctx, "fp-1", now)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	got, err = s.TakeTempToken(ctx, "fp-1", now)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	_, err = s.TakeTempToken(ctx, "fp-1", now)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.False(t, mr.Exists("coursehub:2fa:temp:fp-1"))
}

func TestTempTokensTTLFollowsTokenClock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := redis.NewTempTokens(client)

	// A service clock far behind the wall clock still gets the full lifetime.
	issued := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.CreateTempToken(ctx, domain.TempToken{
		TokenHash: "fp-skew",
		UserID:    "user-3",
		ExpiresAt: issued.Add(5 * time.Minute),
		CreatedAt: issued,
	}))
	assert.Equal(t, 5*time.Minute, mr.TTL("coursehub:2fa:temp:fp-skew"))

	got, err := s.GetTempToken(ctx, "fp-skew", issued.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "user-3", got.UserID)

	// A clock ahead of the wall clock does not stretch it either.
	ahead := time.Now().Add(24 * time.Hour)
	require.NoError(t, s.CreateTempToken(ctx, domain.TempToken{
		TokenHash: "fp-ahead",
		UserID:    "user-3",
		ExpiresAt: ahead.Add(5 * time.Minute),
		CreatedAt: ahead,
	}))
	assert.Equal(t, 5*time.Minute, mr.TTL("coursehub:2fa:temp:fp-ahead"))

	err = s.CreateTempToken(ctx, domain.TempToken{
		TokenHash: "fp-dead",
		UserID:    "user-3",
		ExpiresAt: issued,
		CreatedAt: issued,
	})
	require.Error(t, err)
}

func TestTempTokensExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := redis.NewTempTokens(client)

	now := time.Now()
	require.NoError(t, s.CreateTempToken(ctx, domain.TempToken{
		TokenHash: "fp-2",
		UserID:    "user-2",
		ExpiresAt: now.Add(time.Minute),
		CreatedAt: now,
	}))

	// Logically expired before Redis evicts the key.
	_, err := s.GetTempToken(ctx, "fp-2", now.Add(2*time.Minute))
	require.ErrorIs(t, err, store.ErrNotFound)

	mr.FastForward(2 * time.Minute)
	_, err = s.TakeTempToken(ctx, "fp-2", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.CreateTempToken(ctx, domain.TempToken{TokenHash: "fp-3", UserID: "u", ExpiresAt: now.Add(-time.Second)})
	require.Error(t, err)

	n, err := s.DeleteExpiredTempTokens(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConnect(t *testing.T) {
	t.Parallel()
	mr, _ := newTestRedis(t)

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		ConnectTimeout: time.Second,
		RetryAttempts:  1,
		RetryInterval:  10 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "://bad", ConnectTimeout: time.Second})
	require.ErrorIs(t, err, redis.ErrBadConnectionURL)
}
