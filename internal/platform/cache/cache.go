// Package cache provides a small JSON value cache with a redis backend and in process dedupe
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON encodable values under string keys
type Cache interface {
	// Get decodes the value at key into dst, reporting whether it was present
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v at key for ttl; ttl <= 0 keeps it until deleted
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// Delete removes keys, missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}

// Redis is a Cache on a go-redis client
type Redis struct {
	c      redis.UniversalClient
	prefix string
}

// NewRedis binds a cache to c; every key is stored under prefix
func NewRedis(c redis.UniversalClient, prefix string) *Redis {
	if c == nil {
		panic("cache.NewRedis requires a non nil client")
	}
	return &Redis{c: c, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

// Get implements Cache
func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.c.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Cache
func (r *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return r.c.Set(ctx, r.key(key), b, ttl).Err()
}

// Delete implements Cache
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.c.Del(ctx, full...).Err()
}

// Memory is an in process Cache used when no redis is configured
type Memory struct {
	mu   sync.Mutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	b   []byte
	exp time.Time
}

// NewMemory returns an empty in process cache
func NewMemory() *Memory { return &Memory{data: map[string]memEntry{}, now: time.Now} }

// Get implements Cache
func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	e, ok := m.data[key]
	if ok && !e.exp.IsZero() && !m.now().Before(e.exp) {
		delete(m.data, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.b, dst)
}

// Set implements Cache
func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e := memEntry{b: b}
	if ttl > 0 {
		e.exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

// Delete implements Cache
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}
