package lists

import (
	"context"
	"time"

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

// NewFeature creates a new Lists feature.
func NewFeature(store *query.Store, queue *dispatch.Queue, settings reconcile.Settings, recorder reconcile.Recorder, logger *zap.Logger) (*Feature, error) {
	svc, err := NewService(store, queue, settings, recorder, logger)
	if err != nil {
		return nil, err
	}
	return &Feature{service: svc, handler: NewHandler(svc)}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "lists"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load fills the master view and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := f.service.Start(ctx); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
