package lists

import (
	"errors"

	"reminders/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for lists.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type titleRequest struct {
	Title string `json:"title"`
}

// RegisterRoutes registers the list routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/lists")
	group.Get("/", h.HandleView)
	group.Post("/", h.HandleCreate)
	group.Get("/transitions", h.HandleTransitions)
	group.Delete("/selection", h.HandleDeselect)
	group.Patch("/:id", h.HandleRename)
	group.Delete("/:id", h.HandleDelete)
	group.Put("/:id/selection", h.HandleSelect)
}

// HandleView returns the master view.
// @Summary Get Lists
// @Description Returns the rows of the master view, newest state of every list by title descending, and the selected row.
// @Tags lists
// @Produce json
// @Success 200 {object} Page "Master view"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /lists [get]
func (h *Handler) HandleView(c *fiber.Ctx) error {
	page, err := h.service.View(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to render lists", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleCreate creates a list.
// @Summary Create List
// @Tags lists
// @Accept json
// @Produce json
// @Param body body titleRequest true "List title"
// @Success 201 {object} models.List "Created list"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /lists [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req titleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	list, err := h.service.Create(c.Context(), req.Title)
	if err != nil {
		return h.fail(c, l, "Failed to create list", err)
	}
	l.Info("List created", zap.String("id", list.ID))
	return c.Status(fiber.StatusCreated).JSON(list)
}

// HandleRename renames a list.
// @Summary Rename List
// @Tags lists
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param body body titleRequest true "New title"
// @Success 200 {object} models.List "Renamed list"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id} [patch]
func (h *Handler) HandleRename(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req titleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	list, err := h.service.Rename(c.Context(), c.Params("id"), req.Title)
	if err != nil {
		return h.fail(c, l, "Failed to rename list", err)
	}
	return c.JSON(list)
}

// HandleDelete deletes a list and its reminders.
// @Summary Delete List
// @Tags lists
// @Param id path string true "List ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, l, "Failed to delete list", err)
	}
	l.Info("List deleted", zap.String("id", c.Params("id")))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSelect selects a list row.
// @Summary Select List
// @Tags lists
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} Selection "Selected row"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id}/selection [put]
func (h *Handler) HandleSelect(c *fiber.Ctx) error {
	sel, err := h.service.Select(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, logger.WithRayID(h.service.logger, c), "Failed to select list", err)
	}
	return c.JSON(sel)
}

// HandleDeselect clears the selection.
// @Summary Clear Selection
// @Tags lists
// @Success 204 "Cleared"
// @Router /lists/selection [delete]
func (h *Handler) HandleDeselect(c *fiber.Ctx) error {
	if err := h.service.Deselect(c.Context()); err != nil {
		return h.fail(c, logger.WithRayID(h.service.logger, c), "Failed to clear selection", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleTransitions returns the recent animated transitions of the master view.
// @Summary Get List Transitions
// @Tags lists
// @Produce json
// @Success 200 {array} tableview.Transition "Transitions, oldest first"
// @Router /lists/transitions [get]
func (h *Handler) HandleTransitions(c *fiber.Ctx) error {
	tr, err := h.service.Transitions(c.Context())
	if err != nil {
		return h.fail(c, logger.WithRayID(h.service.logger, c), "Failed to read transitions", err)
	}
	return c.JSON(tr)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTitle):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
