package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacherepo "cloudstorage/internal/repositories/cache"

	"github.com/redis/go-redis/v9"
)

const pkg = "redis/"

const defaultDialTimeout = 5 * time.Second

type Config struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Client adapts go-redis to cacherepo.Cache. Missing keys are reported as
// zero values rather than redis.Nil errors. Every key is namespaced with
// Config.Prefix so several deployments can share one database.
type Client struct {
	redisClient *redis.Client
	prefix      string
}

var _ cacherepo.Cache = (*Client)(nil)

type redisResponse[T any] struct {
	cmd redis.Cmder
	get func() (T, error)
}

func (r redisResponse[T]) Err() error {
	err := r.cmd.Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (r redisResponse[T]) Result() (T, error) {
	res, err := r.get()
	if errors.Is(err, redis.Nil) {
		var zero T
		return zero, nil
	}

	return res, err
}

func newStringResponse(cmd interface {
	redis.Cmder
	Result() (string, error)
}) redisResponse[string] {
	return redisResponse[string]{cmd: cmd, get: cmd.Result}
}

func newIntResponse(cmd *redis.IntCmd) redisResponse[int64] {
	return redisResponse[int64]{cmd: cmd, get: cmd.Result}
}

func (c *Client) key(key string) string {
	return c.prefix + key
}

func (c *Client) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	return newStringResponse(c.redisClient.Get(ctx, c.key(key)))
}

func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	return newStringResponse(c.redisClient.Set(ctx, c.key(key), value, expiration))
}

func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, c.key(key))
	}

	return newIntResponse(c.redisClient.Del(ctx, prefixed...))
}

func (c *Client) Close() error {
	return c.redisClient.Close()
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	op := pkg + "New"

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	client := &Client{
		redisClient: redis.NewClient(&redis.Options{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: dialTimeout,
		}),
		prefix: cfg.Prefix,
	}

	if err := client.redisClient.Ping(ctx).Err(); err != nil {
		_ = client.redisClient.Close()
		return nil, fmt.Errorf("%s: redis: ping failed: %w", op, err)
	}

	return client, nil
}
