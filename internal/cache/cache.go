package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	pkgredis "github.com/Adithya-Monish-Kumar-K/termrank/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "termrank:norm:"

// KV is the subset of the Redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, text string, ttl time.Duration) error
}

// TextCache memoises analyzed document text keyed by the analyzer
// fingerprint and a hash of the raw content. Analysis is deterministic, so a
// hit is byte-identical to recomputing. Cache failures never fail a
// document: they are logged and the text is computed.
type TextCache struct {
	kv      KV
	ttl     time.Duration
	breaker *resilience.Breaker
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
	isMiss  func(error) bool
}

func New(kv KV, ttl time.Duration) *TextCache {
	return &TextCache{
		kv:     kv,
		ttl:    ttl,
		logger: slog.Default().With("component", "text-cache"),
		isMiss: pkgredis.IsNilError,
	}
}

// WithBreaker guards every Redis call with b. While b is open the cache is
// bypassed and every lookup is a miss.
func (c *TextCache) WithBreaker(b *resilience.Breaker) *TextCache {
	c.breaker = b
	return c
}

type lookup struct {
	text string
	hit  bool
}

// GetOrCompute returns the cached text for content, or runs compute, stores
// its result and returns it. The bool reports a cache hit, including one
// found on the second lookup inside the singleflight group.
func (c *TextCache) GetOrCompute(
	ctx context.Context,
	content string,
	fingerprint string,
	compute func() string,
) (string, bool) {
	key := c.buildKey(content, fingerprint)
	if text, ok := c.get(ctx, key); ok {
		c.hits.Add(1)
		return text, true
	}
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if text, ok := c.get(ctx, key); ok {
			return lookup{text: text, hit: true}, nil
		}
		text := compute()
		c.set(ctx, key, text)
		return lookup{text: text}, nil
	})
	res := val.(lookup)
	if res.hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res.text, res.hit
}

func (c *TextCache) get(ctx context.Context, key string) (string, bool) {
	var data string
	found := false
	err := c.call(ctx, func(ctx context.Context) error {
		v, err := c.kv.Get(ctx, key)
		if err != nil {
			if c.isMiss(err) {
				return nil
			}
			return err
		}
		data, found = v, true
		return nil
	})
	if err != nil && !errors.Is(err, resilience.ErrOpen) {
		c.logger.Error("cache get failed", "key", key, "error", err)
	}
	if !found {
		return "", false
	}
	c.logger.Debug("cache hit", "key", key)
	return data, true
}

func (c *TextCache) set(ctx context.Context, key string, text string) {
	err := c.call(ctx, func(ctx context.Context) error {
		return c.kv.Set(ctx, key, text, c.ttl)
	})
	if err != nil && !errors.Is(err, resilience.ErrOpen) {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *TextCache) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Do(ctx, fn)
}

// Stats reports one hit or miss per GetOrCompute call.
func (c *TextCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *TextCache) buildKey(content string, fingerprint string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s%s:%x", keyPrefix, fingerprint, hash[:16])
}
