package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/pkg/validator"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

// MapHandler serves the marker layer and the camera.
type MapHandler struct {
	mapUC  *usecase.MapUseCase
	logger *zap.Logger
}

func NewMapHandler(mapUC *usecase.MapUseCase, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		mapUC:  mapUC,
		logger: logger,
	}
}

// Markers godoc
// @Summary Current marker layer
// @Description One marker per counter plus the optional temporary geocode marker.
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.MarkersResponse}
// @Router /api/v1/map/markers [get]
func (h *MapHandler) Markers(c *fiber.Ctx) error {
	markers := h.mapUC.Markers()
	return utils.SendSuccess(c, markers, &utils.Meta{Total: markers.Total})
}

// MarkersGeoJSON godoc
// @Summary Marker layer as GeoJSON
// @Description Feature collection with one point feature per counter; the temporary geocode marker, when present, carries temp=true.
// @Tags Map
// @Produce json
// @Success 200 {object} dto.GeoJSONResponse
// @Router /api/v1/map/markers.geojson [get]
func (h *MapHandler) MarkersGeoJSON(c *fiber.Ctx) error {
	return c.JSON(h.mapUC.Markers().ToGeoJSON())
}

// Camera godoc
// @Summary Current camera position
// @Tags Map
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /api/v1/map/camera [get]
func (h *MapHandler) Camera(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.mapUC.Camera(), nil)
}

// FlyTo godoc
// @Summary Move the camera
// @Tags Map
// @Accept json
// @Produce json
// @Param request body dto.CameraRequest true "Target position"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/map/fly-to [post]
func (h *MapHandler) FlyTo(c *fiber.Ctx) error {
	var req dto.CameraRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}
	if !utils.ValidateCoordinates(req.Latitude, req.Longitude) {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}

	h.mapUC.FlyTo(req.Latitude, req.Longitude, req.Zoom)
	return utils.SendSuccess(c, h.mapUC.Camera(), nil)
}

// DashboardLink godoc
// @Summary Dashboard deep link for a counter
// @Description Builds the Superset dashboard URL with the counter id URL-encoded as filter state; the page opens it on marker double-click.
// @Tags Map
// @Produce json
// @Param id path int true "Counter ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.DashboardLinkResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/map/dashboard-link/{id} [get]
func (h *MapHandler) DashboardLink(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	return utils.SendSuccess(c, dto.DashboardLinkResponse{
		CounterID:    id,
		DashboardURL: h.mapUC.DashboardLink(id),
	}, nil)
}
