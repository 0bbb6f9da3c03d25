package store

import (
	"context"
	"testing"
	"time"

	"prime-slot-backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore(&config.Config{RedisURL: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, mr
}

func TestRedisStore_UpdateAndView(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, []string{"jackpot"}, func(tx Tx) error {
		return tx.Put("jackpot", counter{N: 90})
	}))

	raw, err := mr.Get("jackpot")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":90}`, raw)

	require.NoError(t, s.View(ctx, []string{"jackpot", "missing"}, func(tx Tx) error {
		var c counter
		ok, err := tx.Get("jackpot", &c)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 90, c.N)

		ok, err = tx.Get("missing", &c)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))
}

func TestRedisStore_FailedCallbackWritesNothing(t *testing.T) {
	s, mr := setupTestRedis(t)

	err := s.Update(context.Background(), []string{"a"}, func(tx Tx) error {
		require.NoError(t, tx.Put("a", counter{N: 1}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, mr.Exists("a"))
}

func TestRedisStore_ConcurrentWriteConflicts(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer other.Close()

	err := s.Update(ctx, []string{"jackpot"}, func(tx Tx) error {
		var c counter
		if _, err := tx.Get("jackpot", &c); err != nil {
			return err
		}
		require.NoError(t, other.Set(ctx, "jackpot", `{"n":7}`, 0).Err())
		return tx.Put("jackpot", counter{N: c.N + 10})
	})
	assert.ErrorIs(t, err, ErrConflict)

	raw, err := mr.Get("jackpot")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":7}`, raw)
}

func TestRedisStore_RateLimit(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := s.CheckRateLimit(ctx, "alice", "draw", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := s.CheckRateLimit(ctx, "alice", "draw", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.ClearRateLimit(ctx, "alice", "draw"))
	ok, err = s.CheckRateLimit(ctx, "alice", "draw", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
