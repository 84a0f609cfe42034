package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const pointColumns = `p.id, p.name, p.email, p.whatsapp, p.image_key,
			p.latitude, p.longitude, p.state, p.city, p.created_at`

type pointRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewPointRepository(db *DB) repository.PointRepository {
	return &pointRepository{
		db:     db,
		logger: db.logger,
	}
}

// Create сохраняет пункт и все его связи с категориями в одной транзакции.
// При любой ошибке транзакция откатывается: ни пункта, ни строк point_categories не остается.
func (r *pointRepository) Create(ctx context.Context, point *domain.Point, categoryIDs []int64) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, errors.Constraint(errors.RuleEmptyCategories, "Point must have at least one category")
	}

	var (
		id        int64
		createdAt time.Time
	)
	err := r.db.InTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO points (name, email, whatsapp, image_key, latitude, longitude, state, city)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			point.Name, point.Email, point.Whatsapp, point.ImageKey,
			point.Latitude, point.Longitude, point.State, point.City,
		).Scan(&id, &createdAt)
		if err != nil {
			r.logger.Error("Failed to insert point", zap.String("name", point.Name), zap.Error(err))
			return err
		}

		for _, categoryID := range categoryIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO point_categories (point_id, category_id) VALUES ($1, $2)`,
				id, categoryID,
			)
			if err != nil {
				r.logger.Error("Failed to link point to category",
					zap.Int64("point_id", id),
					zap.Int64("category_id", categoryID),
					zap.Error(err),
				)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, mapWriteError(err)
	}

	point.ID = id
	point.CreatedAt = createdAt

	r.logger.Debug("Point created",
		zap.Int64("point_id", id),
		zap.Int64s("category_ids", categoryIDs),
	)

	return id, nil
}

func (r *pointRepository) GetByID(ctx context.Context, id int64) (*domain.Point, error) {
	query := `SELECT ` + pointColumns + ` FROM points p WHERE p.id = $1`

	var point domain.Point
	err := r.db.GetContext(ctx, &point, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrPointNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get point by ID", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	return &point, nil
}

func (r *pointRepository) ListCategoryIDs(ctx context.Context, pointID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.SelectContext(ctx, &ids,
		`SELECT category_id FROM point_categories WHERE point_id = $1 ORDER BY category_id`,
		pointID,
	)
	if err != nil {
		r.logger.Error("Failed to list point categories", zap.Int64("point_id", pointID), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	return ids, nil
}

func (r *pointRepository) Query(ctx context.Context, filter domain.PointFilter) ([]*domain.Point, error) {
	query, args := buildPointQuery(filter)

	points := make([]*domain.Point, 0)
	if err := r.db.SelectContext(ctx, &points, query, args...); err != nil {
		r.logger.Error("Failed to query points",
			zap.String("state", filter.State),
			zap.String("city", filter.City),
			zap.Int64s("category_ids", filter.CategoryIDs),
			zap.Error(err),
		)
		return nil, errors.ErrPersistence.Wrap(err)
	}

	return points, nil
}

func buildPointQuery(filter domain.PointFilter) (string, []interface{}) {
	if filter.IsEmpty() {
		return `SELECT ` + pointColumns + ` FROM points p ORDER BY p.id`, nil
	}

	var (
		conditions []string
		args       []interface{}
	)
	argIdx := 1

	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("p.state = $%d", argIdx))
		args = append(args, filter.State)
		argIdx++
	}

	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("p.city = $%d", argIdx))
		args = append(args, filter.City)
		argIdx++
	}

	if len(filter.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM point_categories pc
			WHERE pc.point_id = p.id AND pc.category_id = ANY($%d)
		)`, argIdx))
		args = append(args, pq.Array(filter.CategoryIDs))
	}

	query := `SELECT ` + pointColumns + ` FROM points p`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.id"

	return query, args
}
