package export

import (
	"errors"

	"reminders/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for exports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the export routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/lists/:id/export", h.HandleExport)
	app.Get("/exports", h.HandleList)
}

// HandleExport exports a list to object storage.
// @Summary Export List
// @Description Writes the list and its reminders as JSON to the exports bucket.
// @Tags export
// @Produce json
// @Param id path string true "List ID"
// @Success 201 {object} Result "Stored export"
// @Failure 404 {object} map[string]string "List Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /lists/{id}/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Export(c.Context(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Export failed", zap.String("list_id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleList lists stored exports.
// @Summary List Exports
// @Tags export
// @Produce json
// @Success 200 {array} string "Object keys"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /exports [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	keys, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing exports failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(keys)
}
