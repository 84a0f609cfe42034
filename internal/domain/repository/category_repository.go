package repository

import (
	"context"

	"github.com/ecoleta-service/internal/domain"
)

// CategoryRepository - доступ к справочнику категорий
type CategoryRepository interface {
	// GetAll возвращает все категории в порядке ID
	GetAll(ctx context.Context) ([]*domain.Category, error)

	// Seed добавляет отсутствующие категории, существующие не изменяются
	Seed(ctx context.Context, categories []domain.Category) error
}
