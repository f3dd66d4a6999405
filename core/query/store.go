package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Observer is called after an entity it watches was written.
type Observer func(ctx context.Context) error

// Store runs fetch requests against the database and tells observers when an
// entity changes.
type Store struct {
	db     *gorm.DB
	cache  *fetchCache
	logger *zap.Logger

	mu        sync.Mutex
	observers map[string]map[int]Observer
	nextID    int
}

// NewStore creates a store over db. Fetch results are cached for ttl; zero
// disables caching.
func NewStore(db *gorm.DB, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:        db,
		cache:     newFetchCache(ttl),
		logger:    logger,
		observers: make(map[string]map[int]Observer),
	}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Fetch runs req and returns its rows in request order.
// Concurrent identical fetches share one query.
func Fetch[T Record](ctx context.Context, s *Store, req Request[T]) ([]T, error) {
	if s.db == nil {
		return nil, errors.New("query: database connection is nil")
	}
	v, err := s.cache.getOrFetch(ctx, req.Entity, req.CacheKey(), func(ctx context.Context) (any, error) {
		tx := s.db.WithContext(ctx)
		if req.Where != "" {
			tx = tx.Where(req.Where, req.Args...)
		}
		if req.OrderBy != "" {
			tx = tx.Order(req.OrderBy)
		}
		if req.Limit > 0 {
			tx = tx.Limit(req.Limit)
		}
		var rows []T
		if err := tx.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", req.Entity, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	rows := v.([]T)
	out := make([]T, len(rows))
	copy(out, rows)
	return out, nil
}

// Observe registers fn for writes to entity and returns a function that
// removes it.
func (s *Store) Observe(entity string, fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	if s.observers[entity] == nil {
		s.observers[entity] = make(map[int]Observer)
	}
	s.observers[entity][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers[entity], id)
	}
}

// Notify invalidates cached fetches of the given entities and runs their
// observers in registration order. Observer errors are joined.
func (s *Store) Notify(ctx context.Context, entities ...string) error {
	var fns []Observer
	s.mu.Lock()
	for _, entity := range entities {
		s.cache.invalidate(entity)
		ids := make([]int, 0, len(s.observers[entity]))
		for id := range s.observers[entity] {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			fns = append(fns, s.observers[entity][id])
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			s.logger.Warn("Observer failed", zap.Strings("entities", entities), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Observers returns how many observers watch entity.
func (s *Store) Observers(entity string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers[entity])
}
