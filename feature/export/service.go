package export

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"reminders/core/query"
	"reminders/core/storage"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"go.uber.org/zap"
)

// Prefix is the key prefix of every export object.
const Prefix = "exports/"

// ErrNotFound is returned when the list to export does not exist.
var ErrNotFound = errors.New("list not found")

// Document is the JSON body of one export.
type Document struct {
	List       listModels.List   `json:"list"`
	Reminders  []models.Reminder `json:"reminders"`
	ExportedAt time.Time         `json:"exported_at"`
}

// Result describes a stored export.
type Result struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	Reminders int    `json:"reminders"`
}

// Service exports lists to object storage.
type Service struct {
	store  *query.Store
	client storage.Client
	cfg    storage.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an export service.
func NewService(store *query.Store, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{store: store, client: client, cfg: cfg, logger: logger, now: time.Now}
}

// Key returns the object key of the export of listID.
func Key(listID string) string {
	return path.Join(Prefix, "lists", listID+".json")
}

// Export writes listID and its reminders, in detail view order, to the
// exports bucket. The bucket is created on first use.
func (s *Service) Export(ctx context.Context, listID string) (*Result, error) {
	lists, err := query.Fetch(ctx, s.store, query.Request[listModels.List]{
		Entity: listModels.Entity,
		Where:  "id = ?",
		Args:   []any{listID},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	if len(lists) == 0 {
		return nil, ErrNotFound
	}
	reminders, err := query.Fetch(ctx, s.store, query.Request[models.Reminder]{
		Entity:  models.Entity,
		Where:   "list_id = ?",
		Args:    []any{listID},
		OrderBy: "done asc, title asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	created, err := storage.EnsureBucket(ctx, s.client, s.cfg.Bucket, s.cfg.Region)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Created export bucket", zap.String("bucket", s.cfg.Bucket))
	}

	key := Key(listID)
	doc := Document{List: lists[0], Reminders: reminders, ExportedAt: s.now().UTC()}
	info, err := storage.PutJSON(ctx, s.client, s.cfg.Bucket, key, doc)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Exported list",
		zap.String("list_id", listID),
		zap.String("key", key),
		zap.Int("reminders", len(reminders)),
	)
	return &Result{Bucket: s.cfg.Bucket, Key: key, Size: info.Size, Reminders: len(reminders)}, nil
}

// List returns the keys of all stored exports.
func (s *Service) List(ctx context.Context) ([]string, error) {
	keys, err := storage.Keys(ctx, s.client, s.cfg.Bucket, Prefix)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
