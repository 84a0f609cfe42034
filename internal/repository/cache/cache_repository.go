package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix - пространство имен ключей сервиса в общем Redis
const KeyPrefix = "ecoleta:"

type cacheRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis, prefix string) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		prefix: prefix,
		logger: redis.Logger(),
	}
}

func (r *cacheRepository) key(k string) string {
	return r.prefix + k
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		r.logger.Debug("Cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key), zap.Int("bytes", len(val)))
	return val, nil
}

// Set сохраняет значение; ttl <= 0 означает хранение без срока
func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}
