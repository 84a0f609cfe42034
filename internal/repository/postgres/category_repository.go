package postgres

import (
	"context"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type categoryRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{
		db:     db,
		logger: db.logger,
	}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0)
	err := r.db.SelectContext(ctx, &categories,
		`SELECT id, title, icon_key FROM categories ORDER BY id`,
	)
	if err != nil {
		r.logger.Error("Failed to get categories", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	return categories, nil
}

// Seed добавляет отсутствующие категории; существующие строки не изменяются
func (r *categoryRepository) Seed(ctx context.Context, categories []domain.Category) error {
	inserted := 0
	err := r.db.InTx(ctx, nil, func(tx *sqlx.Tx) error {
		for _, c := range categories {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO categories (id, title, icon_key) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO NOTHING`,
				c.ID, c.Title, c.IconKey,
			)
			if err != nil {
				r.logger.Error("Failed to seed category", zap.Int64("id", c.ID), zap.Error(err))
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return errors.ErrPersistence.Wrap(err)
	}

	r.logger.Info("Categories seeded",
		zap.Int("total", len(categories)),
		zap.Int("inserted", inserted),
	)
	return nil
}
