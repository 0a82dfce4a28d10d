package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrale/webos-remote/internal/tvremoted/ratelimit"
)

func TestKeyStr(t *testing.T) {
	s := NewStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	key := ratelimit.LimitKey{Type: "control", RemoteIP: "10.0.0.5", Endpoint: "/api/volume"}
	assert.Equal(t, "tvremote:rate:control:10.0.0.5:/api/volume", s.keyStr(key))
}

func TestStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewStore(client)
	_, err := s.Increment(context.Background(), ratelimit.LimitKey{Type: "control"}, ratelimit.Limit{Rate: 1, Period: time.Second})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ratelimit.ErrStoreError))
}

// Runs against a real server when TVREMOTE_TEST_REDIS_ADDR is set
func TestStore_Integration(t *testing.T) {
	addr := os.Getenv("TVREMOTE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TVREMOTE_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	s := NewStore(client)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	key := ratelimit.LimitKey{Type: "control", RemoteIP: "192.0.2.10", Endpoint: t.Name()}
	limit := ratelimit.Limit{Rate: 2, Period: 5 * time.Second, BurstSize: 1}
	require.NoError(t, s.Reset(ctx, key))

	for i := 1; i <= 3; i++ {
		status, err := s.Increment(ctx, key, limit)
		require.NoError(t, err)
		assert.Equal(t, i, status.Count)
		assert.Equal(t, 3-i, status.Remaining)
	}

	// The window expiry is set once, on the first hit
	ttl, err := client.PTTL(ctx, s.keyStr(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, limit.Period)

	status, err := s.Increment(ctx, key, limit)
	assert.ErrorIs(t, err, ratelimit.ErrLimitExceeded)
	require.NotNil(t, status)
	assert.True(t, status.Reset.After(time.Now()))

	require.NoError(t, s.Reset(ctx, key))
	status, err = s.Increment(ctx, key, limit)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Count)
	require.NoError(t, s.Reset(ctx, key))
}
