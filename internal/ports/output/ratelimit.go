package output

import "context"

// RateLimiter admits or rejects a request counted under key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
