package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis connection. All methods are best-effort: a Redis
// failure is logged and the caller falls through to Mongo, never to an
// error response.
type Cache struct {
	Conn *redis.Client
}

func Connect() *Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &Cache{
		Conn: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// GetJSON loads a cached value into dest. Returns false on miss or error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.Conn == nil {
		return false
	}
	raw, err := c.Conn.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("Redis Get error:", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Println("Redis cache unmarshal error:", err)
		return false
	}
	return true
}

// SetJSON stores a value with a TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) {
	if c == nil || c.Conn == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		log.Println("Redis cache marshal error:", err)
		return
	}
	if err := c.Conn.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Println("Redis Set error:", err)
	}
}

// DeletePattern removes every key matching the pattern. Used to drop the
// whole catalog page cache after a product mutation.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if c == nil || c.Conn == nil {
		return
	}
	keys, err := c.Conn.Keys(ctx, pattern).Result()
	if err != nil {
		log.Println("Redis scan error:", err)
		return
	}
	if len(keys) > 0 {
		if err := c.Conn.Del(ctx, keys...).Err(); err != nil {
			log.Println("Redis Del error:", err)
		}
	}
}

// Session token bookkeeping, keyed per user so logout can revoke.

func (c *Cache) StoreSessionToken(ctx context.Context, userID, token string) {
	if c == nil || c.Conn == nil {
		return
	}
	if err := c.Conn.HSet(ctx, "sessions", userID, token).Err(); err != nil {
		log.Println("Redis session store error:", err)
	}
}

func (c *Cache) DropSessionToken(ctx context.Context, userID string) {
	if c == nil || c.Conn == nil {
		return
	}
	if err := c.Conn.HDel(ctx, "sessions", userID).Err(); err != nil {
		log.Println("Redis session drop error:", err)
	}
}
