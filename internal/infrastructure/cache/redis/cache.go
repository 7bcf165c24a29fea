// internal/infrastructure/cache/redis/cache.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss ключ отсутствует в кэше
var ErrCacheMiss = errors.New("cache miss")

// DefaultPrefix префикс ключей по умолчанию
const DefaultPrefix = "mrtrader:"

// Cache JSON-кэш и счетчики запросов поверх Redis
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache создает кэш с собственным клиентом
func NewCache(addr, password string, db int) *Cache {
	return NewCacheWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), DefaultPrefix)
}

// NewCacheWithClient создает Cache с существующим клиентом
func NewCacheWithClient(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(key string) string {
	return c.prefix + key
}

// Set устанавливает значение в Redis с TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, ttl).Err()
}

// Get получает значение из Redis, ErrCacheMiss если ключа нет
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete удаляет ключи из Redis
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = c.key(key)
	}
	return c.client.Del(ctx, fullKeys...).Err()
}

// CheckRateLimit увеличивает счетчик key и проверяет лимит в окне window
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	fullKey := c.key("ratelimit:" + key)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}
