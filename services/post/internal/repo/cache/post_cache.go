package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "blog-api/pkg/cache"
	"blog-api/pkg/metrics"
	"blog-api/services/post/internal/entity"
)

const keyPrefix = "post:"

// Store is the JSON key/value API of pkg/cache.Client.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type PostCache struct {
	store Store
	ttl   time.Duration
}

func NewPostCache(store Store, ttl time.Duration) *PostCache {
	return &PostCache{store: store, ttl: ttl}
}

// Get returns pkg/cache.ErrCacheMiss when the post is not cached.
func (c *PostCache) Get(ctx context.Context, id string) (*entity.Post, error) {
	var post entity.Post
	if err := c.store.Get(ctx, keyPrefix+id, &post); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			metrics.CacheMissesTotal.Inc()
		}
		return nil, err
	}
	metrics.CacheHitsTotal.Inc()
	return &post, nil
}

func (c *PostCache) Set(ctx context.Context, post *entity.Post) error {
	return c.store.Set(ctx, keyPrefix+post.ID, post, c.ttl)
}

func (c *PostCache) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, keyPrefix+id)
}
