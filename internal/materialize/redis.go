package materialize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings of the Redis materializers.
type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns a RedisConfig with default values.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Address:      "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisClient creates a client and checks the server is reachable.
func NewRedisClient(ctx context.Context, config *RedisConfig) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Address, err)
	}
	return client, nil
}

// ToRedis saves the dependencies' values as a gob payload under key. A zero
// ttl keeps the key forever.
func ToRedis(id string, client redis.Cmdable, key string, ttl time.Duration, deps ...string) Saver {
	return Saver{
		ID:           id,
		Kind:         "redis",
		Dependencies: deps,
		Save: func(ctx context.Context, values map[string]any) (map[string]any, error) {
			v, err := payload(deps, values)
			if err != nil {
				return nil, err
			}
			data, err := encodeGob(v)
			if err != nil {
				return nil, err
			}
			if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
				return nil, fmt.Errorf("failed to store key '%s': %w", key, err)
			}
			return map[string]any{"key": key, "bytes": len(data)}, nil
		},
	}
}

// FromRedis loads target from a key written by ToRedis.
func FromRedis(target string, client redis.Cmdable, key string) Loader {
	return Loader{
		Target: target,
		Kind:   "redis",
		Load: func(ctx context.Context) (any, error) {
			data, err := client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return nil, fmt.Errorf("key '%s' not found", key)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read key '%s': %w", key, err)
			}
			return decodeGob(data)
		},
	}
}
