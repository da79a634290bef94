// internal/common/reasoning/cache.go
package reasoning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "archai:reasoning:"

const (
	LayerMemory = "memory"
	LayerRedis  = "redis"
)

// CacheObserver is told about every lookup; metrics hang off it.
type CacheObserver func(layer string, hit bool)

// CachedClient memoizes replies so identical prompts give identical verdicts
// across runs. The in-process LRU is consulted first, then redis when one is
// configured.
type CachedClient struct {
	next     Client
	memory   *lru.Cache[string, string]
	redis    redis.Cmdable
	ttl      time.Duration
	observer CacheObserver
}

type CacheOption func(*CachedClient)

func WithRedis(rdb redis.Cmdable, ttl time.Duration) CacheOption {
	return func(c *CachedClient) {
		c.redis = rdb
		c.ttl = ttl
	}
}

func WithCacheObserver(o CacheObserver) CacheOption {
	return func(c *CachedClient) { c.observer = o }
}

func NewCachedClient(next Client, size int, opts ...CacheOption) (*CachedClient, error) {
	if size <= 0 {
		size = 512
	}
	memory, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	c := &CachedClient{next: next, memory: memory}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *CachedClient) Name() string { return c.next.Name() }

func (c *CachedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.CompleteChecked(ctx, system, prompt, nil)
}

// CompleteChecked only caches replies that pass check, and treats a cached
// reply that fails it as a miss.
func (c *CachedClient) CompleteChecked(ctx context.Context, system, prompt string, check ReplyCheck) (string, error) {
	key := c.key(system, prompt)

	if v, ok := c.memory.Get(key); ok && runCheck(check, v) == nil {
		c.observe(LayerMemory, true)
		return v, nil
	}
	c.observe(LayerMemory, false)

	if c.redis != nil {
		v, err := c.redis.Get(ctx, key).Result()
		switch {
		case err == nil && runCheck(check, v) == nil:
			c.observe(LayerRedis, true)
			c.memory.Add(key, v)
			return v, nil
		case err == nil, errors.Is(err, redis.Nil):
			c.observe(LayerRedis, false)
		}
		// any other redis error degrades to a direct call
	}

	v, err := c.next.Complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	if err := runCheck(check, v); err != nil {
		return "", err
	}

	c.memory.Add(key, v)
	if c.redis != nil {
		_ = c.redis.Set(ctx, key, v, c.ttl).Err()
	}
	return v, nil
}

func (c *CachedClient) key(system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(c.next.Name()))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedClient) observe(layer string, hit bool) {
	if c.observer != nil {
		c.observer(layer, hit)
	}
}
