package integrity

import (
	"reminders/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck runs every integrity check.
// @Summary Run All Integrity Checks
// @Description Checks the database schema and the exports bucket.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running all integrity checks")

	report := fiber.Map{}
	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if !h.service.StorageEnabled() {
		report["storage"] = fiber.Map{"status": "disabled"}
	} else if st, err := h.service.CheckStorage(c.Context()); err != nil {
		l.Warn("Storage check failed", zap.Error(err))
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = st
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Schema
// @Description Compares the columns and types of the lists and reminders tables with the models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the exports bucket.
// @Summary Check Storage
// @Description Checks the exports bucket for malformed and orphaned exports. Optionally creates the bucket or removes them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Repair findings"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage Disabled"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if !h.service.StorageEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage is not configured"})
	}

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Healthy() || !c.QueryBool("fix") {
		return c.JSON(fiber.Map{"status": status(report.Healthy()), "report": report})
	}

	l.Info("Repairing exports bucket")
	removed, err := h.service.FixStorage(c.Context(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to repair storage",
			"details": err.Error(),
			"removed": removed,
		})
	}
	return c.JSON(fiber.Map{"status": "fixed", "report": report, "removed": removed})
}

func status(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "error"
}
