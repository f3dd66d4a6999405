package export

import (
	"reminders/core/query"
	"reminders/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the export feature. It is disabled without a storage
// client.
func NewFeature(store *query.Store, client storage.Client, cfg storage.Config, logger *zap.Logger) *Feature {
	return &Feature{
		handler: NewHandler(NewService(store, client, cfg, logger)),
		enabled: client != nil,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "export"
}

// IsEnabled reports whether a storage client is configured.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
