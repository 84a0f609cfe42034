package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/pkg/validator"
	"github.com/ecoleta-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PointQueryUseCase - чтение пунктов сбора и справочника категорий (без побочных эффектов)
type PointQueryUseCase struct {
	pointRepo repository.PointRepository
	catalog   *CategoryCatalog
	media     *MediaResolver
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewPointQueryUseCase создает use case чтения; cacheRepo может быть nil
func NewPointQueryUseCase(
	pointRepo repository.PointRepository,
	catalog *CategoryCatalog,
	media *MediaResolver,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *PointQueryUseCase {
	return &PointQueryUseCase{
		pointRepo: pointRepo,
		catalog:   catalog,
		media:     media,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func (uc *PointQueryUseCase) ListPoints(ctx context.Context, req dto.ListPointsRequest) ([]dto.PointSummary, error) {
	filter := domain.PointFilter{
		State:       strings.ToUpper(strings.TrimSpace(req.State)),
		City:        strings.TrimSpace(req.City),
		CategoryIDs: uniqueIDs(req.CategoryIDs),
	}

	if filter.State != "" && !validator.IsStateCode(filter.State) {
		return nil, errors.Validation("state", "state_code", "state must be a 2-letter code")
	}

	points, err := uc.pointRepo.Query(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to list points", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PointSummary, 0, len(points))
	for _, p := range points {
		result = append(result, toPointSummary(p, uc.media))
	}

	return result, nil
}

// GetPoint возвращает пункт с категориями. Пункты неизменяемы, поэтому результат кешируется.
func (uc *PointQueryUseCase) GetPoint(ctx context.Context, id int64) (*dto.PointDetail, error) {
	if id <= 0 {
		return nil, errors.ErrPointNotFound
	}

	if detail := uc.getCachedPoint(ctx, id); detail != nil {
		return detail, nil
	}

	point, err := uc.pointRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := uc.pointRepo.ListCategoryIDs(ctx, id)
	if err != nil {
		uc.logger.Error("Failed to get point categories", zap.Int64("point_id", id), zap.Error(err))
		return nil, err
	}

	categories := make([]dto.CategoryResponse, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		cat, err := uc.catalog.Get(categoryID)
		if err != nil {
			uc.logger.Error("Point references category missing from catalog",
				zap.Int64("point_id", id),
				zap.Int64("category_id", categoryID),
			)
			return nil, errors.ErrInternalServer.Wrap(err)
		}
		categories = append(categories, uc.toCategoryResponse(cat))
	}

	detail := &dto.PointDetail{
		PointSummary: toPointSummary(point, uc.media),
		Categories:   categories,
	}

	uc.setCachedPoint(ctx, detail)
	return detail, nil
}

func (uc *PointQueryUseCase) ListCategories(ctx context.Context) []dto.CategoryResponse {
	all := uc.catalog.All()

	result := make([]dto.CategoryResponse, 0, len(all))
	for _, cat := range all {
		result = append(result, uc.toCategoryResponse(cat))
	}
	return result
}

func (uc *PointQueryUseCase) toCategoryResponse(cat domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:       cat.ID,
		Title:    cat.Title,
		Image:    cat.IconKey,
		ImageURL: uc.media.Resolve(cat.IconKey),
	}
}

func pointCacheKey(id int64) string {
	return fmt.Sprintf("point:%d", id)
}

func (uc *PointQueryUseCase) getCachedPoint(ctx context.Context, id int64) *dto.PointDetail {
	if uc.cacheRepo == nil {
		return nil
	}

	data, err := uc.cacheRepo.Get(ctx, pointCacheKey(id))
	if err != nil {
		uc.logger.Warn("Point cache read failed", zap.Int64("point_id", id), zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var detail dto.PointDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		uc.logger.Warn("Failed to unmarshal cached point", zap.Int64("point_id", id), zap.Error(err))
		return nil
	}

	return &detail
}

func (uc *PointQueryUseCase) setCachedPoint(ctx context.Context, detail *dto.PointDetail) {
	if uc.cacheRepo == nil {
		return
	}

	data, err := json.Marshal(detail)
	if err != nil {
		uc.logger.Warn("Failed to marshal point for cache", zap.Int64("point_id", detail.ID), zap.Error(err))
		return
	}

	if err := uc.cacheRepo.Set(ctx, pointCacheKey(detail.ID), data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Point cache write failed", zap.Int64("point_id", detail.ID), zap.Error(err))
	}
}
