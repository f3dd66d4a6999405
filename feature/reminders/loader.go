package reminders

import (
	"reminders/core/dispatch"
	"reminders/core/query"
	"reminders/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Reminders feature.
func NewFeature(store *query.Store, queue *dispatch.Queue, settings reconcile.Settings, recorder reconcile.Recorder, logger *zap.Logger) *Feature {
	svc := NewService(store, queue, settings, recorder, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reminders"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes. Detail screens load on first view.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
