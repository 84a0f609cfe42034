package handler

import (
	"github.com/ecoleta-service/internal/pkg/utils"
	"github.com/ecoleta-service/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocalityHandler - справочник штатов и городов
type LocalityHandler struct {
	localityUC *usecase.LocalityUseCase
	logger     *zap.Logger
}

func NewLocalityHandler(localityUC *usecase.LocalityUseCase, logger *zap.Logger) *LocalityHandler {
	return &LocalityHandler{
		localityUC: localityUC,
		logger:     logger,
	}
}

// GetStates godoc
// @Summary Список штатов
// @Tags Localities
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.State}
// @Failure 502 {object} utils.ErrorResponse
// @Router /localities/states [get]
func (h *LocalityHandler) GetStates(c *fiber.Ctx) error {
	states, err := h.localityUC.GetStates(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, states, &utils.Meta{
		Total: len(states),
	})
}

// GetCities godoc
// @Summary Города штата
// @Tags Localities
// @Produce json
// @Param uf path string true "Код штата"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.City}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /localities/states/{uf}/cities [get]
func (h *LocalityHandler) GetCities(c *fiber.Ctx) error {
	cities, err := h.localityUC.GetCities(c.UserContext(), c.Params("uf"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, cities, &utils.Meta{
		Total: len(cities),
	})
}
