package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// scanBatchSize keeps prefix invalidation cursor-based so a large keyspace
// never blocks other cache clients.
const scanBatchSize = 100

// RedisStore is the shared networked cache backend
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-probed redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("Cache: redis get failed for %s: %v", key, err)
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Cache: redis set failed for %s: %v", key, err)
	}
}

func (s *RedisStore) InvalidatePrefix(ctx context.Context, prefix string) {
	pattern := prefix + "*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			log.Printf("Cache: redis scan failed for %s: %v", pattern, err)
			return
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				log.Printf("Cache: redis delete failed for %s: %v", pattern, err)
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
