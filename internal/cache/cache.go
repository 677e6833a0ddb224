package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store is the cache capability bound once at startup. The cache is strictly
// an optimization: backends swallow their own failures, so Get reports a
// miss on any backend error and Set/InvalidatePrefix are best-effort.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	InvalidatePrefix(ctx context.Context, prefix string)
	Close() error
}

const probeTimeout = 2 * time.Second

// Select probes redis once and binds a backend for the process lifetime.
// An empty addr or a failed probe selects the in-process backend.
func Select(redisAddr string) Store {
	if redisAddr == "" {
		log.Println("Cache: using in-process backend")
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Cache: redis unreachable at %s, falling back to in-process backend: %v", redisAddr, err)
		client.Close()
		return NewMemoryStore()
	}

	log.Printf("Cache: using redis backend at %s", redisAddr)
	return NewRedisStore(client)
}
