package restclient

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache backend on go-redis, for sharing a response cache
// between processes. Keys are namespaced with a prefix so Clear only
// touches this client's entries.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	expiration time.Duration
	logger     Logger
}

// NewRedisCache connects to Redis at addr and verifies the connection with
// a ping. A zero expiration stores entries without TTL, matching the
// default cache contract.
func NewRedisCache(addr, password string, db int, prefix string, expiration time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "failed to connect to redis at " + addr,
			Cause:   err,
		}
	}

	if prefix == "" {
		prefix = "restclient"
	}

	return &RedisCache{
		client:     client,
		prefix:     prefix,
		expiration: expiration,
	}, nil
}

// SetLogger attaches a logger for backend failures, which Get and Set
// otherwise swallow to honor the Cache interface.
func (c *RedisCache) SetLogger(logger Logger) {
	c.logger = logger
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves a cached body. A backend failure reads as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	body, err := c.client.Get(context.Background(), c.key(key)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logger != nil {
			c.logger.Warn("redis cache get failed", "key", key, "error", err.Error())
		}
		return "", false
	}
	return body, true
}

// Set stores a body under key.
func (c *RedisCache) Set(key string, body string) {
	if err := c.client.Set(context.Background(), c.key(key), body, c.expiration).Err(); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache set failed", "key", key, "error", err.Error())
		}
	}
}

// Delete removes a single entry.
func (c *RedisCache) Delete(key string) {
	if err := c.client.Del(context.Background(), c.key(key)).Err(); err != nil {
		if c.logger != nil {
			c.logger.Warn("redis cache delete failed", "key", key, "error", err.Error())
		}
	}
}

// Clear removes all entries under this client's prefix.
func (c *RedisCache) Clear() {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil && c.logger != nil {
		c.logger.Warn("redis cache clear failed", "error", err.Error())
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
