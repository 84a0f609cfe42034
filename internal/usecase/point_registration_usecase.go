package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/domain"
	"github.com/ecoleta-service/internal/domain/repository"
	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/pkg/utils"
	"github.com/ecoleta-service/internal/pkg/validator"
	"github.com/ecoleta-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	discardTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// PointRegistrationUseCase - валидация и атомарная регистрация пункта сбора
type PointRegistrationUseCase struct {
	pointRepo  repository.PointRepository
	catalog    *CategoryCatalog
	media      *MediaResolver
	streamRepo repository.StreamRepository
	stream     string
	logger     *zap.Logger
}

// NewPointRegistrationUseCase создает use case регистрации.
// streamRepo может быть nil - тогда события не публикуются.
func NewPointRegistrationUseCase(
	pointRepo repository.PointRepository,
	catalog *CategoryCatalog,
	media *MediaResolver,
	streamRepo repository.StreamRepository,
	stream string,
	logger *zap.Logger,
) *PointRegistrationUseCase {
	return &PointRegistrationUseCase{
		pointRepo:  pointRepo,
		catalog:    catalog,
		media:      media,
		streamRepo: streamRepo,
		stream:     stream,
		logger:     logger,
	}
}

// registration - проверенные и нормализованные данные регистрации
type registration struct {
	point       domain.Point
	categoryIDs []int64
	image       []byte
	contentType string
}

// Register проверяет данные и сохраняет пункт вместе со связями категорий.
// Все проверки выполняются до любой записи; первая нарушенная возвращается как ошибка.
func (uc *PointRegistrationUseCase) Register(ctx context.Context, req dto.CreatePointRequest) (*dto.PointSummary, error) {
	reg, err := uc.validate(req)
	if err != nil {
		uc.logger.Debug("Point registration rejected", zap.Error(err))
		return nil, err
	}

	imageKey, err := uc.media.Store(ctx, reg.image, reg.contentType)
	if err != nil {
		return nil, err
	}

	point := reg.point
	point.ImageKey = imageKey

	id, err := uc.pointRepo.Create(ctx, &point, reg.categoryIDs)
	if err != nil {
		uc.logger.Error("Failed to create point",
			zap.String("name", point.Name),
			zap.String("image_key", imageKey),
			zap.Error(err),
		)

		discardCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
		uc.media.Discard(discardCtx, imageKey)
		cancel()

		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.ErrPersistence.Wrap(err)
	}
	point.ID = id

	uc.logger.Info("Point registered",
		zap.Int64("point_id", id),
		zap.String("state", point.State),
		zap.String("city", point.City),
		zap.Int64s("category_ids", reg.categoryIDs),
	)

	uc.publishCreated(ctx, &point, reg.categoryIDs)

	summary := toPointSummary(&point, uc.media)
	return &summary, nil
}

func (uc *PointRegistrationUseCase) validate(req dto.CreatePointRequest) (*registration, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	whatsapp := strings.TrimSpace(req.Whatsapp)

	// 1. обязательные контактные поля
	if name == "" {
		return nil, errors.Validation("name", "required", "name is required")
	}
	if email == "" {
		return nil, errors.Validation("email", "required", "email is required")
	}
	if whatsapp == "" {
		return nil, errors.Validation("whatsapp", "required", "whatsapp is required")
	}

	// 2. синтаксис email
	if !validator.IsEmail(email) {
		return nil, errors.Validation("email", "email", "email is malformed")
	}

	// 3. координаты
	if !utils.ValidateCoordinates(req.Latitude, 0) {
		return nil, errors.Validation("latitude", "latitude", "latitude must be a finite number between -90 and 90")
	}
	if !utils.ValidateCoordinates(0, req.Longitude) {
		return nil, errors.Validation("longitude", "longitude", "longitude must be a finite number between -180 and 180")
	}

	// 4. штат и город
	state := strings.ToUpper(strings.TrimSpace(req.State))
	if !validator.IsStateCode(state) {
		return nil, errors.Validation("state", "state_code", "state must be a 2-letter code")
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, errors.Validation("city", "required", "city is required")
	}

	// 5. категории
	if req.ItemsMalformed {
		return nil, errors.Validation("items", "integer_list", "items must be a comma-separated list of integer ids")
	}
	categoryIDs := uniqueIDs(req.Items)
	if len(categoryIDs) == 0 {
		return nil, errors.Constraint(errors.RuleEmptyCategories, "at least one category is required")
	}
	var unknown []int64
	for _, id := range categoryIDs {
		if !uc.catalog.Exists(id) {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		err := errors.Constraint(errors.RuleUnknownCategory, "unknown category id")
		err.Details["category_ids"] = unknown
		return nil, err
	}

	// 6. изображение
	if req.Image != nil && req.Image.TooLarge {
		return nil, errors.Validation("image", "max_size", "image is too large")
	}
	if req.Image != nil && req.Image.Unreadable {
		return nil, errors.Validation("image", "readable", "image could not be read")
	}
	if req.Image == nil || len(req.Image.Data) == 0 {
		return nil, errors.Validation("image", "required", "image is required")
	}
	contentType, ok := DetectImageType(req.Image.Data)
	if !ok {
		return nil, errors.Validation("image", "image_format", "image must be JPEG, PNG, GIF or WebP")
	}

	return &registration{
		point: domain.Point{
			Name:      name,
			Email:     email,
			Whatsapp:  whatsapp,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			State:     state,
			City:      city,
		},
		categoryIDs: categoryIDs,
		image:       req.Image.Data,
		contentType: contentType,
	}, nil
}

// publishCreated публикует событие регистрации; ошибка не влияет на результат
func (uc *PointRegistrationUseCase) publishCreated(ctx context.Context, point *domain.Point, categoryIDs []int64) {
	if uc.streamRepo == nil || uc.stream == "" {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.NewPointCreatedEvent(point, categoryIDs)
	messageID, err := uc.streamRepo.Publish(pubCtx, uc.stream, event)
	if err != nil {
		uc.logger.Warn("Failed to publish point created event",
			zap.Int64("point_id", point.ID),
			zap.Error(err),
		)
		return
	}
	uc.logger.Debug("Point created event published",
		zap.Int64("point_id", point.ID),
		zap.String("message_id", messageID),
	)
}

// uniqueIDs удаляет повторы, сохраняя порядок первого появления
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toPointSummary(p *domain.Point, media *MediaResolver) dto.PointSummary {
	return dto.PointSummary{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Whatsapp:  p.Whatsapp,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		State:     p.State,
		City:      p.City,
		Image:     p.ImageKey,
		ImageURL:  media.Resolve(p.ImageKey),
		CreatedAt: p.CreatedAt,
	}
}
