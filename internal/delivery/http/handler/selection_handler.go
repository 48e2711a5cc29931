package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/pkg/validator"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

// SelectionHandler exposes the selection controller.
type SelectionHandler struct {
	selectionUC *usecase.SelectionUseCase
	logger      *zap.Logger
}

func NewSelectionHandler(selectionUC *usecase.SelectionUseCase, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		selectionUC: selectionUC,
		logger:      logger,
	}
}

// Select godoc
// @Summary Select a counter
// @Description Highlights the counter's marker (resetting all others first), moves the camera and opens the info panel.
// @Tags Selection
// @Accept json
// @Produce json
// @Param request body dto.SelectRequest true "Counter to select"
// @Success 200 {object} utils.SuccessResponse{data=dto.SelectionResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/selection [post]
func (h *SelectionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.selectionUC.Select(req.CounterID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// State godoc
// @Summary Current selection
// @Tags Selection
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SelectionResponse}
// @Router /api/v1/selection [get]
func (h *SelectionHandler) State(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.selectionUC.State(), nil)
}

// Clear godoc
// @Summary Clear the selection
// @Tags Selection
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/selection [delete]
func (h *SelectionHandler) Clear(c *fiber.Ctx) error {
	h.selectionUC.Clear()
	return utils.SendSuccess(c, fiber.Map{"cleared": true}, nil)
}

// OutsideClick godoc
// @Summary Report a click by UI region
// @Description Clicks outside the interactive regions clear the selection and hide the info panel, unless a raw export is in flight.
// @Tags Selection
// @Accept json
// @Produce json
// @Param request body dto.OutsideClickRequest true "Region the click landed in"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/selection/outside-click [post]
func (h *SelectionHandler) OutsideClick(c *fiber.Ctx) error {
	var req dto.OutsideClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	cleared := h.selectionUC.OutsideClick(req.Region)
	return utils.SendSuccess(c, fiber.Map{"cleared": cleared}, nil)
}
