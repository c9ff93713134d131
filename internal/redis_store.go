package internal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisStore is a Store backed by a Redis database.
// Only keys under prefix are visible through Keys and TotalBytes.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// OpenRedisStore connects to the Redis server described by a redis:// URL.
// Keys and TotalBytes only see keys under prefix; an empty prefix means
// DefaultKeyPrefix.
func OpenRedisStore(rawURL, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 10 * time.Second
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return NewRedisStore(rdb, prefix), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

// Get returns the value stored under key
func (s *RedisStore) Get(key string) (string, bool) {
	ctx, cancel := s.ctx()
	defer cancel()

	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			LogWarn("%v", &StorageError{Backend: "redis", Op: "get", Key: key, Err: err})
		}
		return "", false
	}
	return value, true
}

// Set stores value under key. An OOM reply from the server is reported as
// a quota error.
func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		if isRedisOOM(err) {
			return &QuotaExceededError{Key: key, Required: entrySize(key, value)}
		}
		return &StorageError{Backend: "redis", Op: "set", Key: key, Err: err}
	}
	return nil
}

func isRedisOOM(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "OOM")
	}
	return false
}

// Remove deletes key if present
func (s *RedisStore) Remove(key string) {
	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		LogWarn("%v", &StorageError{Backend: "redis", Op: "remove", Key: key, Err: err})
	}
}

// Keys returns the keys under the store prefix in sorted order
func (s *RedisStore) Keys() []string {
	ctx, cancel := s.ctx()
	defer cancel()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			LogWarn("%v", &StorageError{Backend: "redis", Op: "keys", Err: err})
			return nil
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys
}

// TotalBytes returns the summed key and value lengths under the prefix
func (s *RedisStore) TotalBytes() int64 {
	keys := s.Keys()
	if len(keys) == 0 {
		return 0
	}

	ctx, cancel := s.ctx()
	defer cancel()

	pipe := s.rdb.Pipeline()
	lens := make([]*redis.IntCmd, len(keys))
	for i, key := range keys {
		lens[i] = pipe.StrLen(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		LogWarn("%v", &StorageError{Backend: "redis", Op: "size", Err: err})
	}

	var total int64
	for i, key := range keys {
		total += int64(len(key)) + lens[i].Val()
	}
	return total
}
