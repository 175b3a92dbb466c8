package resolve

import (
	"context"
	"encoding/json"
	stdliberrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/SciText-Prep/pkg/errors"
)

// RedisLookupCache is a Redis-backed LookupCache that shares resolution
// results across sessions and processes.  Values are JSON-serialized
// Records keyed by the case-normalized mention name.
type RedisLookupCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisCacheConfig holds the cache connection and keying parameters.
type RedisCacheConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	TTL          time.Duration `mapstructure:"ttl"`
}

// NewRedisLookupCache connects a Redis-backed cache.  A zero TTL stores
// entries without expiry; resolution records never go stale, so that is the
// default.
func NewRedisLookupCache(cfg RedisCacheConfig) *RedisLookupCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "scitext:entity:"
	}
	return &RedisLookupCache{
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
		prefix: prefix,
		ttl:    cfg.TTL,
	}
}

func (c *RedisLookupCache) key(name string) string {
	return c.prefix + name
}

// Get implements LookupCache.
func (c *RedisLookupCache) Get(ctx context.Context, name string) (Record, bool, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	if stdliberrors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, errors.Wrap(err, errors.ErrCodeCacheError, "redis get failed")
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt cached record")
	}
	return rec, true, nil
}

// Set implements LookupCache.
func (c *RedisLookupCache) Set(ctx context.Context, name string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cached record")
	}
	if err := c.client.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set failed")
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisLookupCache) Close() error {
	return c.client.Close()
}
