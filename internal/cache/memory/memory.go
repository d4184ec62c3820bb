// Package memory is an in-process key/value cache with per-key expiration.
//
// Keys are spread over a fixed number of shards, each guarded by its own
// RWMutex.
// The client satisfies cacherepo.Cache and can stand in for the redis client.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	cacherepo "cloudstorage/internal/repositories/cache"

	"github.com/cespare/xxhash/v2"
)

const DefaultShards = 32

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type shard struct {
	mu    sync.RWMutex
	items map[string]entry
}

type Client struct {
	shards []*shard
	now    func() time.Time
}

var _ cacherepo.Cache = (*Client)(nil)

type Option func(*Client)

func WithShards(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.shards = newShards(n)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		shards: newShards(DefaultShards),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{items: make(map[string]entry)}
	}
	return shards
}

func (c *Client) shardFor(key string) *shard {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}

type response[T any] struct {
	val T
	err error
}

func (r response[T]) Err() error {
	return r.err
}

func (r response[T]) Result() (T, error) {
	return r.val, r.err
}

// Get returns an empty string for missing or expired keys, like the redis client does.
func (c *Client) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	if err := ctx.Err(); err != nil {
		return response[string]{err: err}
	}

	s := c.shardFor(key)

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return response[string]{}
	}

	return response[string]{val: e.value}
}

// Set stores value under key. A zero expiration keeps the key until it is deleted.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	if err := ctx.Err(); err != nil {
		return response[string]{err: err}
	}

	e := entry{value: stringify(value)}
	if expiration > 0 {
		e.expiresAt = c.now().Add(expiration)
	}

	s := c.shardFor(key)

	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()

	return response[string]{val: "OK"}
}

// Del removes keys and reports how many live keys were removed.
func (c *Client) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	if err := ctx.Err(); err != nil {
		return response[int64]{err: err}
	}

	now := c.now()

	var removed int64

	for _, key := range keys {
		s := c.shardFor(key)

		s.mu.Lock()
		if e, ok := s.items[key]; ok {
			delete(s.items, key)
			if !e.expired(now) {
				removed++
			}
		}
		s.mu.Unlock()
	}

	return response[int64]{val: removed}
}

// Len counts live keys.
func (c *Client) Len() int {
	now := c.now()
	n := 0

	for _, s := range c.shards {
		s.mu.RLock()
		for _, e := range s.items {
			if !e.expired(now) {
				n++
			}
		}
		s.mu.RUnlock()
	}

	return n
}

// Sweep drops expired keys and returns how many were dropped.
func (c *Client) Sweep() int {
	now := c.now()
	n := 0

	for _, s := range c.shards {
		s.mu.Lock()
		for key, e := range s.items {
			if e.expired(now) {
				delete(s.items, key)
				n++
			}
		}
		s.mu.Unlock()
	}

	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *Client) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := c.Sweep()
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
