package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/pkg/utils"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

// ExportHandler triggers downloads. Raw export operates on the current
// selection, mirroring the download button next to the info panel.
type ExportHandler struct {
	exportUC    *usecase.ExportUseCase
	selectionUC *usecase.SelectionUseCase
	logger      *zap.Logger
}

func NewExportHandler(exportUC *usecase.ExportUseCase, selectionUC *usecase.SelectionUseCase, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportUC:    exportUC,
		selectionUC: selectionUC,
		logger:      logger,
	}
}

// Metadata godoc
// @Summary Download counter metadata
// @Description Serializes the whole counter store to json, csv or xlsx.
// @Tags Export
// @Produce octet-stream
// @Param format query string true "Export format" Enums(json, csv, xlsx)
// @Success 200 {file} file
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/export/metadata [get]
func (h *ExportHandler) Metadata(c *fiber.Ctx) error {
	format := dto.ExportFormat(c.Query("format", "json"))

	file, err := h.exportUC.ExportMetadata(format)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFile(c, file)
}

// Raw godoc
// @Summary Download the selected counter's raw data archive
// @Description Fetches the datastream list and all per-stream counts concurrently, bundles them into counter_<id>_data.zip. Requires a selection; only one raw export can run at a time.
// @Tags Export
// @Produce octet-stream
// @Success 200 {file} file
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/export/raw [get]
func (h *ExportHandler) Raw(c *fiber.Ctx) error {
	selected := h.selectionUC.Current()
	if selected == nil {
		return utils.SendError(c, errors.ErrNoSelection)
	}

	file, err := h.exportUC.ExportRaw(c.Context(), selected.CounterID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFile(c, file)
}

// RawByID godoc
// @Summary Download a counter's raw data archive by id
// @Tags Export
// @Produce octet-stream
// @Param id path int true "Counter ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/export/raw/{id} [get]
func (h *ExportHandler) RawByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	file, err := h.exportUC.ExportRaw(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendFile(c, file)
}

func sendFile(c *fiber.Ctx, file *dto.ExportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Name))
	return c.Send(file.Data)
}
