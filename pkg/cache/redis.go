package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"graphrag-chatbot-be/internal/pkg/logger"
)

// RedisStore backs the Store contract with Redis so cached answers survive
// restarts and are shared across instances. Redis errors degrade to cache
// misses; the pipeline never fails because the cache is down.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
	log        logger.ILogger
}

func NewRedisStore(client *redis.Client, defaultTTL time.Duration, log logger.ILogger) *RedisStore {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisStore{client: client, defaultTTL: defaultTTL, log: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		if s.log != nil {
			s.log.Warn("CACHE", "Redis read failed, treating as miss", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil && s.log != nil {
		s.log.Warn("CACHE", "Redis write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil && s.log != nil {
		s.log.Warn("CACHE", "Redis delete failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Len is not tracked for Redis; the bound lives server-side via TTLs.
func (s *RedisStore) Len() int { return -1 }

var _ Store = (*RedisStore)(nil)
