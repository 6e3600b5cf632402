package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DirectoryCacheKey holds the serialized user list.
const DirectoryCacheKey = "sr:notion:users"

// UserCache stores a snapshot of the Notion user directory.
type UserCache interface {
	// Load returns ok=false on a miss.
	Load(ctx context.Context) (users []User, ok bool, err error)
	Store(ctx context.Context, users []User) error
}

// RedisUserCache keeps the directory in one Redis string with a TTL.
type RedisUserCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisUserCache returns nil when client is nil or ttl is not positive,
// which callers treat as "no cache".
func NewRedisUserCache(client *redis.Client, ttl time.Duration) *RedisUserCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &RedisUserCache{client: client, key: DirectoryCacheKey, ttl: ttl}
}

// Load and Store are no-ops on a nil cache.
func (c *RedisUserCache) Load(ctx context.Context) ([]User, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false, err
	}
	return users, true, nil
}

func (c *RedisUserCache) Store(ctx context.Context, users []User) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, raw, c.ttl).Err()
}
