package repository

import (
	"context"

	"github.com/ecoleta-service/internal/domain"
)

// PointRepository определяет методы хранилища пунктов сбора и связей с категориями
type PointRepository interface {
	// Create атомарно сохраняет пункт и его связи с категориями, возвращает новый ID
	Create(ctx context.Context, point *domain.Point, categoryIDs []int64) (int64, error)

	// GetByID возвращает пункт по ID
	GetByID(ctx context.Context, id int64) (*domain.Point, error)

	// ListCategoryIDs возвращает ID категорий пункта
	ListCategoryIDs(ctx context.Context, pointID int64) ([]int64, error)

	// Query возвращает пункты, удовлетворяющие всем заданным фильтрам, в порядке ID
	Query(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error)
}
