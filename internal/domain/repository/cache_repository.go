package repository

import (
	"context"
	"time"
)

// CacheRepository - кеш неизменяемых ответов (карточки пунктов, справочник IBGE)
type CacheRepository interface {
	// Get получает значение из кеша по ключу; промах возвращает nil, nil
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
