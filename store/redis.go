package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
)

// RedisConfig 是 RedisStore 的连接配置。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix 拼在每个 key 前，如 "artrec:"
	Prefix string

	// ConnectRetries 是启动时 PING 的最大重试次数，0 表示不重试
	ConnectRetries int
}

// RedisStore 是 Redis 实现的 Store。
// embeddings / profiles / recommendations 各自存成一个字符串 key。
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ core.Store = (*RedisStore)(nil)

// NewRedisStore 建立连接，并以指数退避重试 PING，直到成功、重试耗尽或 ctx 结束。
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	log := logging.Component("store")
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(cfg.ConnectRetries, 0))), ctx)

	err := backoff.Retry(func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Str("addr", cfg.Addr).Err(err).Msg("redis ping failed")
			return err
		}
		return nil
	}, policy)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) k(key string) string { return r.prefix + key }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.k(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrStoreNotFound
	}
	return val, err
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return r.client.Set(ctx, r.k(key), value, expiration(ttl)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func expiration(ttl []int) time.Duration {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Duration(ttl[0]) * time.Second
	}
	return 0
}
