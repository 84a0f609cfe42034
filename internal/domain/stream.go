package domain

import "time"

// Stream names
const (
	StreamPointCreated = "stream:points:created"
)

// Event types
const (
	EventPointCreated = "point.created"
)

// Event - событие, публикуемое в стрим
type Event interface {
	EventType() string
}

// PointCreatedEvent - событие о регистрации нового пункта сбора,
// публикуется после успешного коммита транзакции
type PointCreatedEvent struct {
	PointID     int64     `json:"point_id"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	CategoryIDs []int64   `json:"category_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PointCreatedEvent) EventType() string {
	return EventPointCreated
}

// NewPointCreatedEvent строит событие из сохраненного пункта
func NewPointCreatedEvent(p *Point, categoryIDs []int64) PointCreatedEvent {
	ids := make([]int64, len(categoryIDs))
	copy(ids, categoryIDs)

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return PointCreatedEvent{
		PointID:     p.ID,
		State:       p.State,
		City:        p.City,
		CategoryIDs: ids,
		CreatedAt:   createdAt,
	}
}
