package handler

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ecoleta-service/internal/pkg/errors"
	"github.com/ecoleta-service/internal/pkg/utils"
	"github.com/ecoleta-service/internal/usecase"
	"github.com/ecoleta-service/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PointHandler - обработчик запросов регистрации и поиска пунктов сбора
type PointHandler struct {
	registrationUC *usecase.PointRegistrationUseCase
	queryUC        *usecase.PointQueryUseCase
	requestTimeout time.Duration
	maxImageBytes  int64
	logger         *zap.Logger
}

// NewPointHandler - создание нового PointHandler
func NewPointHandler(
	registrationUC *usecase.PointRegistrationUseCase,
	queryUC *usecase.PointQueryUseCase,
	requestTimeout time.Duration,
	maxImageBytes int64,
	logger *zap.Logger,
) *PointHandler {
	return &PointHandler{
		registrationUC: registrationUC,
		queryUC:        queryUC,
		requestTimeout: requestTimeout,
		maxImageBytes:  maxImageBytes,
		logger:         logger,
	}
}

// CreatePoint godoc
// @Summary Регистрация пункта сбора
// @Description Сохраняет пункт сбора вместе с изображением и набором принимаемых категорий. Пункт и его связи с категориями записываются в одной транзакции.
// @Tags Points
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Название"
// @Param email formData string true "Email"
// @Param whatsapp formData string true "WhatsApp"
// @Param latitude formData number true "Широта"
// @Param longitude formData number true "Долгота"
// @Param state formData string true "Код штата (2 буквы); допускается поле uf"
// @Param city formData string true "Город"
// @Param items formData string true "ID категорий через запятую, например 1,4"
// @Param image formData file true "Изображение (JPEG, PNG, GIF, WebP)"
// @Success 201 {object} utils.SuccessResponse{data=dto.PointSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /points [post]
func (h *PointHandler) CreatePoint(c *fiber.Ctx) error {
	req := h.parseCreateRequest(c)

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	result, err := h.registrationUC.Register(ctx, *req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, result)
}

// ListPoints godoc
// @Summary Список пунктов сбора
// @Description Возвращает пункты, удовлетворяющие всем заданным фильтрам. Фильтр category принимает список ID через запятую и совпадает с пунктами, принимающими любую из категорий.
// @Tags Points
// @Produce json
// @Param state query string false "Код штата (алиас uf)"
// @Param city query string false "Город"
// @Param category query string false "ID категорий через запятую"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.PointSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /points [get]
func (h *PointHandler) ListPoints(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		state = c.Query("uf")
	}

	categoryIDs, err := parseIDList("category", c.Query("category"))
	if err != nil {
		return utils.SendError(c, err)
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	points, err := h.queryUC.ListPoints(ctx, dto.ListPointsRequest{
		State:       state,
		City:        c.Query("city"),
		CategoryIDs: categoryIDs,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, points, &utils.Meta{
		Total: len(points),
	})
}

// GetPoint godoc
// @Summary Пункт сбора по ID
// @Description Возвращает пункт вместе с полным набором его категорий
// @Tags Points
// @Produce json
// @Param id path int true "ID пункта"
// @Success 200 {object} utils.SuccessResponse{data=dto.PointDetail}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /points/{id} [get]
func (h *PointHandler) GetPoint(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"field": "id",
		}))
	}

	ctx, cancel := h.withTimeout(c)
	defer cancel()

	point, err := h.queryUC.GetPoint(ctx, id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, point, nil)
}

// ListCategories godoc
// @Summary Справочник категорий
// @Description Возвращает все категории отходов с URL иконок
// @Tags Categories
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.CategoryResponse}
// @Router /categories [get]
func (h *PointHandler) ListCategories(c *fiber.Ctx) error {
	categories := h.queryUC.ListCategories(c.UserContext())

	return utils.SendSuccess(c, categories, &utils.Meta{
		Total: len(categories),
	})
}

func (h *PointHandler) withTimeout(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.requestTimeout)
}

// parseCreateRequest не отклоняет запрос сам: ошибки разбора items и image
// переносятся в запрос и сообщаются валидацией в порядке проверки полей
func (h *PointHandler) parseCreateRequest(c *fiber.Ctx) *dto.CreatePointRequest {
	state := c.FormValue("state")
	if state == "" {
		state = c.FormValue("uf")
	}

	req := &dto.CreatePointRequest{
		Name:      c.FormValue("name"),
		Email:     c.FormValue("email"),
		Whatsapp:  c.FormValue("whatsapp"),
		Latitude:  parseCoordinate(c.FormValue("latitude")),
		Longitude: parseCoordinate(c.FormValue("longitude")),
		State:     state,
		City:      c.FormValue("city"),
		Image:     h.readImage(c),
	}

	items, err := parseIDList("items", c.FormValue("items"))
	if err != nil {
		req.ItemsMalformed = true
	} else {
		req.Items = items
	}

	return req
}

// readImage читает файл из поля image; nil означает, что файла нет
func (h *PointHandler) readImage(c *fiber.Ctx) *dto.ImageUpload {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}

	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		return &dto.ImageUpload{Filename: fh.Filename, TooLarge: true}
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Warn("Failed to open uploaded image", zap.String("filename", fh.Filename), zap.Error(err))
		return &dto.ImageUpload{Filename: fh.Filename, Unreadable: true}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Warn("Failed to read uploaded image", zap.String("filename", fh.Filename), zap.Error(err))
		return &dto.ImageUpload{Filename: fh.Filename, Unreadable: true}
	}

	return &dto.ImageUpload{Filename: fh.Filename, Data: data}
}

// parseCoordinate возвращает NaN для нечисловых значений, чтобы ошибку
// сообщила общая валидация в порядке проверки полей
func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseIDList разбирает список ID вида "1,4, 6"
func parseIDList(field, raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Validation(field, "integer_list", field+" must be a comma-separated list of integer ids")
		}
		ids = append(ids, id)
	}

	return ids, nil
}
