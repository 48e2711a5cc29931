package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/pkg/validator"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

// SearchHandler serves immediate queries, the debounced search session
// and address geocoding.
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	session  *usecase.SearchSession
	logger   *zap.Logger
}

func NewSearchHandler(searchUC *usecase.SearchUseCase, session *usecase.SearchSession, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		session:  session,
		logger:   logger,
	}
}

// Search godoc
// @Summary Search counters
// @Description Case-insensitive substring match against name, id, notes, vendor and code (OR semantics). Queries that look like an address get a synthetic "search as address" entry appended.
// @Tags Search
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	req := dto.SearchRequest{Query: c.Query("q")}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result := h.searchUC.Query(req.Query)
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// SessionInput godoc
// @Summary Feed search bar text
// @Description One keystroke worth of text; evaluation is debounced, so rapid input is computed once.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.SessionInputRequest true "Current search bar text"
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/search/session/input [post]
func (h *SearchHandler) SessionInput(c *fiber.Ctx) error {
	var req dto.SessionInputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	h.session.Input(req.Text)
	return utils.SendSuccess(c, fiber.Map{"accepted": true}, nil)
}

// SessionState godoc
// @Summary Current search session state
// @Tags Search
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionStateResponse}
// @Router /api/v1/search/session [get]
func (h *SearchHandler) SessionState(c *fiber.Ctx) error {
	state := h.session.State()
	return utils.SendSuccess(c, state, &utils.Meta{Total: len(state.Results)})
}

// SessionKey godoc
// @Summary Apply a keyboard event to the result list
// @Description up/down move the cursor (clamped to [-1, n-1]), enter activates the focused entry, escape closes the list keeping the text.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.SessionKeyRequest true "Key event"
// @Success 200 {object} utils.SuccessResponse{data=dto.SessionStateResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/search/session/key [post]
func (h *SearchHandler) SessionKey(c *fiber.Ctx) error {
	var req dto.SessionKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	h.session.Key(req.Key)
	return utils.SendSuccess(c, h.session.State(), nil)
}

// Geocode godoc
// @Summary Resolve a query as an address
// @Description Forward-geocodes the text, places a temporary marker that expires after a fixed timeout, and reports the nearest counter.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body dto.GeocodeRequest true "Address query"
// @Success 200 {object} utils.SuccessResponse{data=dto.GeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode [post]
func (h *SearchHandler) Geocode(c *fiber.Ctx) error {
	var req dto.GeocodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Geocode(c.Context(), req.Query)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}
