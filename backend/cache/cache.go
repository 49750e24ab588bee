// ABOUTME: In-memory cache with TTL-based expiration for sizing results
// ABOUTME: Thread-safe cache using sync.Map, singleflight loading, and structural keys

package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	data      interface{}
	expiresAt time.Time
}

type Cache struct {
	store sync.Map
	ttl   time.Duration
	count atomic.Int64
	group singleflight.Group
}

func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl: ttl,
	}
	go c.startCleanup()
	return c
}

func (c *Cache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return nil, false
	}

	e := val.(entry)
	if time.Now().After(e.expiresAt) {
		c.delete(key)
		slog.Debug("Cache expired", "key", key)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	e := entry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
	if _, loaded := c.store.Swap(key, e); !loaded {
		c.count.Add(1)
	}
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// Len returns the number of stored entries, expired ones included until
// the next cleanup pass.
func (c *Cache) Len() int {
	return int(c.count.Load())
}

// GetOrLoad returns the cached value for key, or calls load once for all
// concurrent callers asking for the same missing key. Errors are not cached.
func (c *Cache) GetOrLoad(key string, load func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if shared {
		slog.Debug("Cache load shared", "key", key)
	}
	return v, err
}

// KeyFor derives a cache key from the structure of v, prefixed with namespace.
// Field order and slice contents matter; map iteration order does not.
func KeyFor(namespace string, v interface{}) (string, error) {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing %s key: %w", namespace, err)
	}
	return fmt.Sprintf("%s:%016x", namespace, h), nil
}

func (c *Cache) delete(key string) {
	if _, loaded := c.store.LoadAndDelete(key); loaded {
		c.count.Add(-1)
	}
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.store.Range(func(key, val interface{}) bool {
			e := val.(entry)
			if now.After(e.expiresAt) {
				c.delete(key.(string))
			}
			return true
		})
	}
}
