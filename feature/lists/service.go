package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reminders/core/dispatch"
	"reminders/core/query"
	"reminders/core/reconcile"
	"reminders/core/tableview"
	"reminders/feature/lists/models"
	reminderModels "reminders/feature/reminders/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no list has the given id.
	ErrNotFound = errors.New("list not found")
	// ErrInvalidTitle is returned for an empty title.
	ErrInvalidTitle = errors.New("title must not be empty")
)

// Selection is the selected row of the master view.
type Selection struct {
	ID       string             `json:"id"`
	Position reconcile.Position `json:"position"`
}

// Page is the rendered master view.
type Page struct {
	Sections  []tableview.SectionRows `json:"sections"`
	Selection *Selection              `json:"selection"`
}

// Service handles lists and owns the master view.
type Service struct {
	store  *query.Store
	queue  *dispatch.Queue
	logger *zap.Logger

	view *tableview.TableView
	ctrl *query.Controller[models.List]
}

// NewService creates a lists service. The master view is reconciled per
// event and shows at most settings.ListFetchLimit lists, by title descending.
func NewService(store *query.Store, queue *dispatch.Queue, settings reconcile.Settings, recorder reconcile.Recorder, logger *zap.Logger) (*Service, error) {
	s := &Service{store: store, queue: queue, logger: logger}

	s.view = tableview.New(tableview.Config{VisibleRows: settings.VisibleRows}, s.cell, logger.Named("lists.view"))
	rec, err := reconcile.New(reconcile.Config{
		Mode:       reconcile.ModeEvents,
		View:       s.view,
		Logger:     logger.Named("lists.reconcile"),
		Recorder:   recorder,
		MaxDiffOps: settings.MaxDiffOps,
	})
	if err != nil {
		return nil, err
	}

	req := query.Request[models.List]{
		Entity:  models.Entity,
		OrderBy: "title desc",
		Limit:   settings.ListFetchLimit,
	}
	s.ctrl = query.NewController(store, req, rec, queue, logger)
	return s, nil
}

// cell renders a list row. It runs on the queue.
func (s *Service) cell(id reconcile.RowIdentity) string {
	if l, ok := s.ctrl.Lookup(id); ok {
		return l.Title
	}
	return string(id)
}

// Start loads the master view and begins observing lists.
func (s *Service) Start(ctx context.Context) error {
	if err := s.ctrl.PerformFetch(ctx); err != nil {
		return fmt.Errorf("failed to load lists: %w", err)
	}
	return nil
}

// Close stops observing lists.
func (s *Service) Close() {
	s.ctrl.Close()
}

// Create adds a list.
func (s *Service) Create(ctx context.Context, title string) (*models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	l := &models.List{ID: uuid.NewString(), Title: title}
	if err := s.store.DB().WithContext(ctx).Create(l).Error; err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	s.notify(ctx, models.Entity)
	return l, nil
}

// Rename changes the title of a list.
func (s *Service) Rename(ctx context.Context, id, title string) (*models.List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	res := s.store.DB().WithContext(ctx).Model(&models.List{}).Where("id = ?", id).Update("title", title)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rename list: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var l models.List
	if err := s.store.DB().WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload list: %w", err)
	}
	s.notify(ctx, models.Entity)
	return &l, nil
}

// Delete removes a list together with its reminders.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&reminderModels.Reminder{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.List{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	s.notify(ctx, models.Entity, reminderModels.Entity)
	return nil
}

// notify tells the store about a write. A failed refresh has already been
// logged by the store and does not fail the write.
func (s *Service) notify(ctx context.Context, entities ...string) {
	if err := s.store.Notify(ctx, entities...); err != nil {
		s.logger.Warn("Refresh after write failed", zap.Strings("entities", entities), zap.Error(err))
	}
}

// View renders the master view.
func (s *Service) View(ctx context.Context) (*Page, error) {
	var page Page
	err := s.queue.Sync(ctx, func() error {
		page.Sections = s.view.Rows()
		if id, pos, ok := s.ctrl.Reconciler().Selection(); ok {
			page.Selection = &Selection{ID: string(id), Position: pos}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Select selects the row of list id.
func (s *Service) Select(ctx context.Context, id string) (*Selection, error) {
	var sel *Selection
	err := s.queue.Sync(ctx, func() error {
		pos, err := s.ctrl.Reconciler().SelectIdentity(reconcile.RowIdentity(id))
		if errors.Is(err, reconcile.ErrNoRow) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		sel = &Selection{ID: id, Position: pos}
		return nil
	})
	return sel, err
}

// Deselect clears the selection.
func (s *Service) Deselect(ctx context.Context) error {
	return s.queue.Sync(ctx, func() error {
		s.ctrl.Reconciler().Deselect()
		return nil
	})
}

// Transitions returns the recent animated transitions of the master view.
func (s *Service) Transitions(ctx context.Context) ([]tableview.Transition, error) {
	var out []tableview.Transition
	err := s.queue.Sync(ctx, func() error {
		out = s.view.Transitions()
		return nil
	})
	return out, err
}

// Exists reports whether a list with id exists.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.store.DB().WithContext(ctx).Model(&models.List{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
