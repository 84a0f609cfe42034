package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultMaxLen - приблизительный предел длины стрима (MAXLEN ~)
const DefaultMaxLen = 10000

type streamRepository struct {
	client *redis.Client
	maxLen int64
	logger *zap.Logger
}

// NewStreamRepository создает публикатор событий; maxLen <= 0 отключает обрезку стрима
func NewStreamRepository(client *redis.Client, maxLen int64, logger *zap.Logger) repository.StreamRepository {
	return &streamRepository{
		client: client,
		maxLen: maxLen,
		logger: logger,
	}
}

// Publish записывает событие полями type, data (JSON) и published_at
func (r *streamRepository) Publish(ctx context.Context, stream string, event domain.Event) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", event.EventType(), err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"type":         event.EventType(),
			"data":         string(payload),
			"published_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	id, err := r.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}

	r.logger.Debug("Event published",
		zap.String("stream", stream),
		zap.String("type", event.EventType()),
		zap.String("message_id", id),
	)
	return id, nil
}
