package repository

import (
	"context"

	"github.com/ecoleta-service/internal/domain"
)

// StreamRepository - публикация доменных событий в Redis Streams
type StreamRepository interface {
	// Publish добавляет событие в стрим и возвращает ID записи
	Publish(ctx context.Context, stream string, event domain.Event) (string, error)
}
