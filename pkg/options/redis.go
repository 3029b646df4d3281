package options

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a Redis-backed supplier. Defaults can be loaded via
// envdecode.
type RedisConfig struct {
	// Addr like "localhost:6379". ENV: REDIS_ADDR
	Addr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix is prepended to the collection name. ENV: FORMSTATE_OPTIONS_PREFIX
	KeyPrefix string `env:"FORMSTATE_OPTIONS_PREFIX,default=formstate:options:"`
}

// RedisSupplier reads options from a Redis list; each element is a JSON
// object {id, label|name}, kept in list order.
type RedisSupplier struct {
	client    *redis.Client
	keyPrefix string
}

var newRedisClient = redis.NewClient

// NewRedisSupplier connects to cfg.Addr and verifies the server answers. The
// client is closed again when it does not.
func NewRedisSupplier(ctx context.Context, cfg RedisConfig) (*RedisSupplier, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := newRedisClient(&redis.Options{Addr: addr})
	supplier, err := NewRedisSupplierWithClient(ctx, client, cfg.KeyPrefix)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return supplier, nil
}

// NewRedisSupplierWithClient reuses an existing client. The caller keeps
// ownership of client when an error is returned.
func NewRedisSupplierWithClient(ctx context.Context, client *redis.Client, keyPrefix string) (*RedisSupplier, error) {
	if client == nil {
		return nil, errors.New("options: redis client is required")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("options: redis ping: %w", err)
	}
	if keyPrefix == "" {
		keyPrefix = "formstate:options:"
	}
	return &RedisSupplier{client: client, keyPrefix: keyPrefix}, nil
}

// NewRedisSupplierFromEnv builds a supplier using envdecode to populate
// RedisConfig.
func NewRedisSupplierFromEnv(ctx context.Context) (*RedisSupplier, error) {
	var cfg RedisConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("options: redis env: %w", err)
	}
	return NewRedisSupplier(ctx, cfg)
}

// Key returns the Redis key holding collection.
func (r *RedisSupplier) Key(collection string) string {
	return r.keyPrefix + collection
}

// Load implements Supplier.
func (r *RedisSupplier) Load(ctx context.Context, collection string) ([]Option, error) {
	items, err := r.client.LRange(ctx, r.Key(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("options: redis lrange %s: %w", r.Key(collection), err)
	}
	out := make([]Option, 0, len(items))
	for i, raw := range items {
		opts, err := DecodeJSON([]byte("[" + raw + "]"))
		if err != nil {
			return nil, fmt.Errorf("options: redis item %d: %w", i, err)
		}
		out = append(out, opts...)
	}
	return out, nil
}

// Publish replaces collection's list with opts. It is used by seeding tools
// and tests.
func (r *RedisSupplier) Publish(ctx context.Context, collection string, opts []Option) error {
	key := r.Key(collection)
	values := make([]any, 0, len(opts))
	for _, opt := range opts {
		encoded, err := json.Marshal(opt)
		if err != nil {
			return fmt.Errorf("options: redis encode %s: %w", key, err)
		}
		values = append(values, string(encoded))
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.RPush(ctx, key, values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("options: redis publish %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisSupplier) Close() error { return r.client.Close() }
