package usecase

import (
	"context"
	"fmt"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// CategoryCatalog - неизменяемый справочник категорий, загружается один раз при старте
type CategoryCatalog struct {
	categories []domain.Category
	byID       map[int64]domain.Category
}

func NewCategoryCatalog(categories []*domain.Category) *CategoryCatalog {
	c := &CategoryCatalog{
		categories: make([]domain.Category, 0, len(categories)),
		byID:       make(map[int64]domain.Category, len(categories)),
	}

	for _, cat := range categories {
		if cat == nil {
			continue
		}
		if _, dup := c.byID[cat.ID]; dup {
			continue
		}
		c.categories = append(c.categories, *cat)
		c.byID[cat.ID] = *cat
	}

	return c
}

// LoadCategoryCatalog читает категории из хранилища
func LoadCategoryCatalog(
	ctx context.Context,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) (*CategoryCatalog, error) {
	categories, err := categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}

	catalog := NewCategoryCatalog(categories)
	logger.Info("Category catalog loaded", zap.Int("categories", len(catalog.categories)))

	return catalog, nil
}

// All возвращает копию всех категорий в порядке загрузки
func (c *CategoryCatalog) All() []domain.Category {
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *CategoryCatalog) Exists(id int64) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *CategoryCatalog) Get(id int64) (domain.Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return domain.Category{}, errors.ErrCategoryNotFound.WithDetails(map[string]interface{}{
			"category_id": id,
		})
	}
	return cat, nil
}
