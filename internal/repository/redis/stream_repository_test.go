package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ecoleta-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brokenEvent struct {
	Ch chan int
}

func (brokenEvent) EventType() string { return "broken" }

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestStreamRepository_Publish(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewStreamRepository(client, DefaultMaxLen, zap.NewNop())
	ctx := context.Background()

	event := domain.PointCreatedEvent{
		PointID:     7,
		State:       "SP",
		City:        "São Paulo",
		CategoryIDs: []int64{1, 4},
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	id, err := repo.Publish(ctx, domain.StreamPointCreated, event)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	messages, err := client.XRange(ctx, domain.StreamPointCreated, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, id, messages[0].ID)
	assert.Equal(t, domain.EventPointCreated, messages[0].Values["type"])
	assert.NotEmpty(t, messages[0].Values["published_at"])

	raw, ok := messages[0].Values["data"].(string)
	require.True(t, ok)

	var decoded domain.PointCreatedEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, event, decoded)
}

func TestStreamRepository_Publish_TrimsStream(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewStreamRepository(client, 5, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := repo.Publish(ctx, "s", domain.PointCreatedEvent{PointID: int64(i)})
		require.NoError(t, err, fmt.Sprintf("publish %d", i))
	}

	n, err := client.XLen(ctx, "s").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(20))
	assert.GreaterOrEqual(t, n, int64(5))
}

func TestStreamRepository_Publish_Unmarshalable(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewStreamRepository(client, DefaultMaxLen, zap.NewNop())

	_, err := repo.Publish(context.Background(), "s", brokenEvent{Ch: make(chan int)})
	assert.Error(t, err)
}

func TestStreamRepository_Publish_ServerDown(t *testing.T) {
	client, mr := newTestClient(t)
	mr.Close()
	repo := NewStreamRepository(client, DefaultMaxLen, zap.NewNop())

	_, err := repo.Publish(context.Background(), "s", domain.PointCreatedEvent{PointID: 1})
	assert.Error(t, err)
}
