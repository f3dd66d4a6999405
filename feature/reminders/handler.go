package reminders

import (
	"errors"

	"reminders/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reminders.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title string `json:"title"`
}

// RegisterRoutes registers the reminder routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/lists/:id/reminders", h.HandleView)
	app.Post("/lists/:id/reminders", h.HandleCreate)
	app.Get("/lists/:id/reminders/transitions", h.HandleTransitions)
	app.Patch("/reminders/:id", h.HandleUpdate)
	app.Delete("/reminders/:id", h.HandleDelete)
}

// HandleView opens the detail screen of a list.
// @Summary Get Reminders
// @Description Returns the detail view of a list: reminders by title, in an open and a done section.
// @Tags reminders
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {object} Page "Detail view"
// @Failure 404 {object} map[string]string "List Not Found"
// @Router /lists/{id}/reminders [get]
func (h *Handler) HandleView(c *fiber.Ctx) error {
	page, err := h.service.View(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to render reminders", err)
	}
	return c.JSON(page)
}

// HandleCreate adds a reminder to a list.
// @Summary Create Reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param id path string true "List ID"
// @Param body body createRequest true "Reminder title"
// @Success 201 {object} models.Reminder "Created reminder"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "List Not Found"
// @Router /lists/{id}/reminders [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	r, err := h.service.Create(c.Context(), c.Params("id"), req.Title)
	if err != nil {
		return h.fail(c, "Failed to create reminder", err)
	}
	logger.WithRayID(h.service.logger, c).Info("Reminder created", zap.String("id", r.ID), zap.String("list_id", r.ListID))
	return c.Status(fiber.StatusCreated).JSON(r)
}

// HandleTransitions returns the recent transitions of a detail view.
// @Summary Get Reminder Transitions
// @Tags reminders
// @Produce json
// @Param id path string true "List ID"
// @Success 200 {array} tableview.Transition "Transitions, oldest first"
// @Failure 404 {object} map[string]string "List Not Found"
// @Router /lists/{id}/reminders/transitions [get]
func (h *Handler) HandleTransitions(c *fiber.Ctx) error {
	tr, err := h.service.Transitions(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to read transitions", err)
	}
	return c.JSON(tr)
}

// HandleUpdate changes the title or completion of a reminder.
// @Summary Update Reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param id path string true "Reminder ID"
// @Param body body Patch true "Fields to change"
// @Success 200 {object} models.Reminder "Updated reminder"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reminders/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var p Patch
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	r, err := h.service.Update(c.Context(), c.Params("id"), p)
	if err != nil {
		return h.fail(c, "Failed to update reminder", err)
	}
	return c.JSON(r)
}

// HandleDelete deletes a reminder.
// @Summary Delete Reminder
// @Tags reminders
// @Param id path string true "Reminder ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reminders/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, "Failed to delete reminder", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTitle):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrListNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
