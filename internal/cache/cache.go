// Package cache builds the store behind the footprint history cache
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/go-redis/redis/v8"
)

type Config struct {
	Type string // none, memory or redis
	TTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns the configured store, or nil when caching is disabled
func New(ctx context.Context, cfg Config) (persist.CacheStore, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, nil
	case "memory":
		ttl := cfg.TTL
		if ttl <= 0 {
			ttl = time.Minute
		}

		return persist.NewMemoryStore(ttl), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis, %w", err)
		}

		return persist.NewRedisStore(client), nil
	}

	return nil, fmt.Errorf("unsupported cache type %q", cfg.Type)
}
