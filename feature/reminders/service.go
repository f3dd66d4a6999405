package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"reminders/core/dispatch"
	"reminders/core/query"
	"reminders/core/reconcile"
	"reminders/core/tableview"
	listModels "reminders/feature/lists/models"
	"reminders/feature/reminders/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no reminder has the given id.
	ErrNotFound = errors.New("reminder not found")
	// ErrListNotFound is returned when the owning list does not exist.
	ErrListNotFound = errors.New("list not found")
	// ErrInvalidTitle is returned for an empty title.
	ErrInvalidTitle = errors.New("title must not be empty")
)

// Page is the rendered detail view of one list.
type Page struct {
	ListID   string                  `json:"list_id"`
	Sections []tableview.SectionRows `json:"sections"`
}

// Patch holds the optional fields of a reminder update.
type Patch struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// screen is the detail view of one list.
type screen struct {
	listID string
	view   *tableview.TableView
	ctrl   *query.Controller[models.Reminder]
}

// Service handles reminders and the detail views of opened lists.
type Service struct {
	store    *query.Store
	queue    *dispatch.Queue
	settings reconcile.Settings
	recorder reconcile.Recorder
	logger   *zap.Logger

	mu      sync.Mutex
	screens map[string]*screen
	cancel  func()
}

// NewService creates a reminders service.
func NewService(store *query.Store, queue *dispatch.Queue, settings reconcile.Settings, recorder reconcile.Recorder, logger *zap.Logger) *Service {
	s := &Service{
		store:    store,
		queue:    queue,
		settings: settings,
		recorder: recorder,
		logger:   logger,
		screens:  make(map[string]*screen),
	}
	s.cancel = store.Observe(listModels.Entity, s.prune)
	return s
}

// Close closes every open screen and stops observing lists.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sc := range s.screens {
		sc.ctrl.Close()
		delete(s.screens, id)
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// open returns the detail screen of listID, loading it on first use.
// Reminders are sorted by title and sectioned into open and done.
func (s *Service) open(ctx context.Context, listID string) (*screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.screens[listID]; ok {
		return sc, nil
	}

	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}

	sc := &screen{listID: listID}
	sc.view = tableview.New(tableview.Config{VisibleRows: s.settings.VisibleRows}, func(id reconcile.RowIdentity) string {
		r, ok := sc.ctrl.Lookup(id)
		if !ok {
			return string(id)
		}
		return render(r)
	}, s.logger.Named("reminders.view"))

	rec, err := reconcile.New(reconcile.Config{
		Mode:       reconcile.ModeSnapshot,
		View:       sc.view,
		Logger:     s.logger.Named("reminders.reconcile").With(zap.String("list_id", listID)),
		Recorder:   s.recorder,
		MaxDiffOps: s.settings.MaxDiffOps,
	})
	if err != nil {
		return nil, err
	}
	req := query.Request[models.Reminder]{
		Entity:       models.Entity,
		Where:        "list_id = ?",
		Args:         []any{listID},
		OrderBy:      "title asc",
		SectionBy:    models.Reminder.Section,
		SectionOrder: []string{models.SectionOpen, models.SectionDone},
	}
	sc.ctrl = query.NewController(s.store, req, rec, s.queue, s.logger)
	if err := sc.ctrl.PerformFetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	s.screens[listID] = sc
	s.logger.Debug("Opened reminders screen", zap.String("list_id", listID))
	return sc, nil
}

func render(r models.Reminder) string {
	if r.Done {
		return "[x] " + r.Title
	}
	return "[ ] " + r.Title
}

// prune closes the screens of lists that no longer exist.
func (s *Service) prune(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sc := range s.screens {
		var n int64
		if err := s.store.DB().WithContext(ctx).Model(&listModels.List{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			sc.ctrl.Close()
			delete(s.screens, id)
			s.logger.Debug("Closed reminders screen of deleted list", zap.String("list_id", id))
		}
	}
	return nil
}

func (s *Service) requireList(ctx context.Context, listID string) error {
	var n int64
	if err := s.store.DB().WithContext(ctx).Model(&listModels.List{}).Where("id = ?", listID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to look up list: %w", err)
	}
	if n == 0 {
		return ErrListNotFound
	}
	return nil
}

// View renders the detail view of listID.
func (s *Service) View(ctx context.Context, listID string) (*Page, error) {
	sc, err := s.open(ctx, listID)
	if err != nil {
		return nil, err
	}
	page := &Page{ListID: listID}
	err = s.queue.Sync(ctx, func() error {
		page.Sections = sc.view.Rows()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Transitions returns the recent transitions of the detail view of listID.
func (s *Service) Transitions(ctx context.Context, listID string) ([]tableview.Transition, error) {
	sc, err := s.open(ctx, listID)
	if err != nil {
		return nil, err
	}
	var out []tableview.Transition
	err = s.queue.Sync(ctx, func() error {
		out = sc.view.Transitions()
		return nil
	})
	return out, err
}

// Create adds a reminder to listID.
func (s *Service) Create(ctx context.Context, listID, title string) (*models.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if err := s.requireList(ctx, listID); err != nil {
		return nil, err
	}
	r := &models.Reminder{ID: uuid.NewString(), ListID: listID, Title: title}
	if err := s.store.DB().WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	s.notify(ctx)
	return r, nil
}

// Update applies p to the reminder id.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*models.Reminder, error) {
	updates := map[string]any{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrInvalidTitle
		}
		updates["title"] = title
	}
	if p.Done != nil {
		updates["done"] = *p.Done
	}

	db := s.store.DB().WithContext(ctx)
	var r models.Reminder
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load reminder: %w", err)
	}
	if len(updates) == 0 {
		return &r, nil
	}
	if err := db.Model(&r).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload reminder: %w", err)
	}
	s.notify(ctx)
	return &r, nil
}

// Delete removes the reminder id.
func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.store.DB().WithContext(ctx).Where("id = ?", id).Delete(&models.Reminder{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete reminder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *Service) notify(ctx context.Context) {
	if err := s.store.Notify(ctx, models.Entity); err != nil {
		s.logger.Warn("Refresh after write failed", zap.Error(err))
	}
}

// OpenScreens returns how many detail screens are loaded.
func (s *Service) OpenScreens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.screens)
}
