package integrity

import (
	"context"

	"reminders/core/storage"
	"reminders/feature/integrity/checks"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	cfg    storage.Config
	logger *zap.Logger
}

// NewService creates a new integrity service. Storage checks are skipped
// when client is nil.
func NewService(db *gorm.DB, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{db: db, client: client, cfg: cfg, logger: logger}
}

// CheckSchema compares the list and reminder models with the database.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, listModels.List{}, models.Reminder{})
}

// StorageEnabled reports whether a storage client is configured.
func (s *Service) StorageEnabled() bool {
	return s.client != nil
}

// CheckStorage inspects the exports bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.cfg.Bucket, s.listExists)
}

// FixStorage repairs what CheckStorage found.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) ([]string, error) {
	return checks.FixStorage(ctx, s.client, report, s.cfg.Region, s.logger)
}

func (s *Service) listExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&listModels.List{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
