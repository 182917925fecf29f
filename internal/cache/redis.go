package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-resources/internal/logger"
)

const connectionTimeout = 5 * time.Second

// NewRedisClient 创建 redis 客户端并检查连接
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Redis 多实例共享的缓存,过期交给 redis 处理。
// 读写失败只记日志并按未命中处理。
type Redis[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logger.Logger
}

func NewRedis[V any](client *redis.Client, prefix string, ttl time.Duration, log logger.Logger) *Redis[V] {
	return &Redis[V]{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("redis cache get failed", logger.String("key", key), logger.Error(err))
		}
		return zero, false
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		r.log.Warn("redis cache decode failed", logger.String("key", key), logger.Error(err))
		return zero, false
	}
	return v, true
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.log.Warn("redis cache encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		r.log.Warn("redis cache set failed", logger.String("key", key), logger.Error(err))
	}
}

func (r *Redis[V]) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.Warn("redis cache delete failed", logger.String("key", iter.Val()), logger.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("redis cache scan failed", logger.Error(err))
	}
}
