package testhelpers

import (
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewPointRepositoryForTest creates a point repository with test database and logger
func NewPointRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.PointRepository {
	return postgres.NewPointRepository(NewDBForTest(db, logger))
}

// NewCategoryRepositoryForTest creates a category repository with test database and logger
func NewCategoryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CategoryRepository {
	return postgres.NewCategoryRepository(NewDBForTest(db, logger))
}
