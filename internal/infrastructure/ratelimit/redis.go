package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"checkin/internal/ports/output"
)

var _ output.RateLimiter = (*Redis)(nil)

// Redis is a fixed-window limiter shared by every server instance that
// points at the same Redis database.
type Redis struct {
	client *redis.Client
	prefix string
	window time.Duration
	max    int64
	now    func() time.Time
}

// NewRedisClient builds a client from REDIS_URL. Both redis:// URLs and bare
// host:port addresses are accepted; password and db apply only to the latter.
func NewRedisClient(rawURL, password string, db int) (*redis.Client, error) {
	if strings.Contains(rawURL, "://") {
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     rawURL,
		Password: password,
		DB:       db,
	}), nil
}

// NewRedis creates a limiter allowing limit hits per key per window.
func NewRedis(client *redis.Client, window time.Duration, limit int) *Redis {
	return &Redis{
		client: client,
		prefix: "checkin:ratelimit:",
		window: window,
		max:    int64(limit),
		now:    time.Now,
	}
}

// Allow counts one hit for key in the current window. The counter key
// carries the window start, so it expires on its own.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	start := windowStart(r.now(), r.window)
	k := fmt.Sprintf("%s%s:%d", r.prefix, key, start.Unix())

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireAt(ctx, k, start.Add(r.window))
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= r.max, nil
}

func windowStart(t time.Time, window time.Duration) time.Time {
	if window <= 0 {
		return t
	}
	return t.Truncate(window)
}
