package cachefilesrepo

import (
	"context"
	"time"

	cacherepo "cloudstorage/internal/repositories/cache"
)

type repository struct {
	cache   cacherepo.Cache
	listTTL time.Duration
}

func New(cache cacherepo.Cache, listTTL time.Duration) *repository {
	return &repository{
		cache:   cache,
		listTTL: listTTL,
	}
}

func (r *repository) Get(ctx context.Context, key string) (string, error) {
	listJSON, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}

	return listJSON, nil
}

func (r *repository) Set(ctx context.Context, key string, value interface{}) error {
	return r.cache.Set(ctx, key, value, r.listTTL).Err()
}

func (r *repository) Del(ctx context.Context, keys ...string) error {
	return r.cache.Del(ctx, keys...).Err()
}
