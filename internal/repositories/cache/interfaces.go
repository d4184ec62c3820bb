package cacherepo

import (
	"context"
	"time"
)

// Cache is the key/value contract shared by the in-process store and redis.
// A missing or expired key is not an error: Get yields "" and Del counts only
// keys that were actually removed.
type Cache interface {
	Get(ctx context.Context, key string) CacheResponse[string]
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) CacheResponse[string]
	Del(ctx context.Context, keys ...string) CacheResponse[int64]
}

type CacheResponse[T any] interface {
	Err() error
	Result() (T, error)
}
