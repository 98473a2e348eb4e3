package cache

import (
	"context"
	"time"

	"grantdir/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// Loader reads through a Cache and collapses concurrent misses for the same key into one load
// cache failures are logged and treated as misses so a broken cache never fails a read
type Loader[T any] struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger

	// OnLookup observes every cache lookup, e.g. for hit ratio metrics
	OnLookup func(hit bool)
}

// NewLoader builds a Loader; a nil cache disables caching but keeps dedupe
func NewLoader[T any](c Cache, ttl time.Duration) *Loader[T] {
	return &Loader[T]{cache: c, ttl: ttl, log: logger.Named("cache")}
}

// Get returns the cached value at key or calls load, storing a successful result
func (l *Loader[T]) Get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if l.cache != nil {
		var v T
		hit, err := l.cache.Get(ctx, key, &v)
		if err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		if l.OnLookup != nil {
			l.OnLookup(hit)
		}
		if hit {
			return v, nil
		}
	}

	out, err, _ := l.group.Do(key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		l.store(ctx, key, v)
		return v, nil
	})
	v, _ := out.(T)
	return v, err
}

// Refresh loads and stores unconditionally, bypassing the read
func (l *Loader[T]) Refresh(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	out, err, _ := l.group.Do("refresh:"+key, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		l.store(ctx, key, v)
		return v, nil
	})
	v, _ := out.(T)
	return v, err
}

// Forget drops key from the cache
func (l *Loader[T]) Forget(ctx context.Context, key string) {
	l.group.Forget(key)
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, key); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

func (l *Loader[T]) store(ctx context.Context, key string, v T) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, key, v, l.ttl); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
