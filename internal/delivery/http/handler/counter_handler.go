package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/usecase"
)

// CounterHandler serves the counter store.
type CounterHandler struct {
	counterUC *usecase.CounterUseCase
	logger    *zap.Logger
}

func NewCounterHandler(counterUC *usecase.CounterUseCase, logger *zap.Logger) *CounterHandler {
	return &CounterHandler{
		counterUC: counterUC,
		logger:    logger,
	}
}

// List godoc
// @Summary List all counters
// @Description Returns the full in-memory counter set in load order.
// @Tags Counters
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/counters [get]
func (h *CounterHandler) List(c *fiber.Ctx) error {
	counters := h.counterUC.List()
	return utils.SendSuccess(c, counters, &utils.Meta{Total: len(counters)})
}

// Get godoc
// @Summary Get one counter
// @Tags Counters
// @Produce json
// @Param id path int true "Counter ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/counters/{id} [get]
func (h *CounterHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	counter, err := h.counterUC.Get(id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, counter, nil)
}

// Reload godoc
// @Summary Reload the counter store
// @Description Refetches the counter list from the upstream API and replaces the store wholesale.
// @Tags Counters
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/counters/reload [post]
func (h *CounterHandler) Reload(c *fiber.Ctx) error {
	if err := h.counterUC.Reload(c.Context()); err != nil {
		return utils.SendError(c, err)
	}

	counters := h.counterUC.List()
	return utils.SendSuccess(c, fiber.Map{"reloaded": len(counters)}, &utils.Meta{Total: len(counters)})
}
