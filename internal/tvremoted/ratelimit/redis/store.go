// Package redis stores rate limit counters in Redis so several gateway
// instances can share one budget.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrale/webos-remote/internal/tvremoted/ratelimit"
)

// Store implements rate limit storage using Redis
type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a new Redis-backed rate limit store
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client, prefix: "tvremote:rate"}
}

// keyStr converts a LimitKey to a Redis key
func (s *Store) keyStr(key ratelimit.LimitKey) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		s.prefix,
		key.Type,
		key.RemoteIP,
		key.Endpoint,
	)
}

// Increment counts one operation in the current fixed window
func (s *Store) Increment(ctx context.Context, key ratelimit.LimitKey, limit ratelimit.Limit) (*ratelimit.LimitStatus, error) {
	redisKey := s.keyStr(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
	}

	count := int(incr.Val())
	ttl := pttl.Val()

	// First hit of a window, or a key left without expiry. Only set when
	// missing so later hits do not extend the window.
	if ttl < 0 {
		if err := s.client.PExpire(ctx, redisKey, limit.Period).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
		}
		ttl = limit.Period
	}

	status := &ratelimit.LimitStatus{
		Limit:     limit,
		Count:     count,
		Remaining: limit.Max() - count,
		Reset:     time.Now().Add(ttl),
	}
	if status.Remaining < 0 {
		status.Remaining = 0
	}

	if count > limit.Max() {
		return status, ratelimit.ErrLimitExceeded
	}
	return status, nil
}

// Reset clears a rate limit counter
func (s *Store) Reset(ctx context.Context, key ratelimit.LimitKey) error {
	err := s.client.Del(ctx, s.keyStr(key)).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ratelimit.ErrStoreError, err)
	}
	return nil
}

// Ping checks connectivity to the Redis server
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
