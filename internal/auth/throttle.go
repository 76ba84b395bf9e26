package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle applies a fixed window limit (INCR + EXPIRE) to login
// attempts per client key. It guards the intentionally expensive bcrypt
// comparison, not the overall API, which has its own rate limit.
type LoginThrottle struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginThrottle constructs a throttle backed by the given client.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, max: int64(max), window: window}
}

// Allow reports whether another attempt for key fits in the current
// window. A nil throttle allows everything.
func (t *LoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t == nil || t.client == nil {
		return true, nil
	}
	windowStart := time.Now().UTC().Truncate(t.window)
	redisKey := fmt.Sprintf("login:%s:%d", key, windowStart.Unix())

	hits, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if hits == 1 {
		_ = t.client.Expire(ctx, redisKey, t.window).Err()
	}
	return hits <= t.max, nil
}
