// Package redis is the go-redis/v9 connection behind the termrank text
// cache. Values are analyzed document texts stored under
// "termrank:norm:<fingerprint>:<content hash>" keys with a TTL, so the client
// only needs string get/set and a ping for /healthz.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/config"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

type Client struct {
	rdb *redis.Client
}

// NewClient connects to cfg.Addr. A failed PING is returned so the run can
// continue without a cache.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

// Get returns the cached text for key. A missing key is reported as an
// error for which IsNilError is true.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Set stores text under key; a zero ttl keeps it forever.
func (c *Client) Set(ctx context.Context, key string, text string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, text, ttl).Err()
}

func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
