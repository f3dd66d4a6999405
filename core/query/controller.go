package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"reminders/core/reconcile"

	"go.uber.org/zap"
)

// Executor runs fn on the goroutine that owns a view. dispatch.Queue
// implements it.
type Executor interface {
	Sync(ctx context.Context, fn func() error) error
}

type inline struct{}

func (inline) Sync(_ context.Context, fn func() error) error { return fn() }

// Controller keeps a Reconciler fed with the results of one request.
//
// Depending on the reconciler's mode, a refresh is delivered as a batch of
// change events or as a snapshot. A ConsistencyFault is logged and answered
// with a Resync from the fresh results.
type Controller[T Record] struct {
	store  *Store
	req    Request[T]
	rec    *reconcile.Reconciler
	exec   Executor
	logger *zap.Logger

	// Owned by the executor goroutine.
	sections     [][]T
	keys         []string
	fingerprints map[reconcile.RowIdentity]string
	// pending holds the rows being delivered so a view rendering cells
	// during delivery sees the new content.
	pending map[reconcile.RowIdentity]T
	// applied is the generation of the last delivered fetch.
	applied uint64

	// fetched numbers fetches in the order they start.
	fetched atomic.Uint64

	mu     sync.Mutex
	cancel func()
}

// NewController creates a controller. A nil executor runs everything on the
// calling goroutine.
func NewController[T Record](store *Store, req Request[T], rec *reconcile.Reconciler, exec Executor, logger *zap.Logger) *Controller[T] {
	if exec == nil {
		exec = inline{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		store:        store,
		req:          req,
		rec:          rec,
		exec:         exec,
		logger:       logger.With(zap.String("entity", req.Entity)),
		fingerprints: make(map[reconcile.RowIdentity]string),
	}
}

// PerformFetch loads the initial results into the view and starts observing
// the store.
func (c *Controller[T]) PerformFetch(ctx context.Context) error {
	gen := c.fetched.Add(1)
	rows, err := Fetch(ctx, c.store, c.req)
	if err != nil {
		return err
	}
	err = c.exec.Sync(ctx, func() error {
		c.applied = gen
		keys, groups := c.req.group(rows)
		c.stage(groups)
		defer c.unstage()
		if err := c.rec.Load(c.snapshot(keys, groups, false)); err != nil {
			return err
		}
		c.commit(keys, groups)
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		c.cancel = c.store.Observe(c.req.Entity, c.Refresh)
	}
	return nil
}

// Close stops observing the store.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Refresh refetches and delivers the difference to the reconciler. The fetch
// runs on the calling goroutine; only the delivery runs on the executor.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	gen := c.fetched.Add(1)
	rows, err := Fetch(ctx, c.store, c.req)
	if err != nil {
		return err
	}
	return c.exec.Sync(ctx, func() error {
		// A fetch started later has already been delivered.
		if gen < c.applied {
			c.logger.Debug("Dropped superseded results", zap.Uint64("generation", gen))
			return nil
		}
		c.applied = gen
		return c.refresh(rows)
	})
}

func (c *Controller[T]) refresh(rows []T) error {
	keys, groups := c.req.group(rows)
	snap := c.snapshot(keys, groups, true)
	c.stage(groups)
	defer c.unstage()

	switch c.rec.Mode() {
	case reconcile.ModeEvents:
		plan, err := reconcile.Diff(c.rec.Sections(), snap)
		if err != nil {
			return c.resync(err, snap)
		}
		if plan.Reload {
			if err := c.rec.Resync(snap); err != nil {
				return err
			}
			break
		}
		if err := c.deliver(plan.Events()); err != nil {
			return c.resync(err, snap)
		}
	default:
		if err := c.rec.OnSnapshot(snap); err != nil {
			return c.resync(err, snap)
		}
	}
	c.commit(keys, groups)
	return nil
}

// ApplyEvents feeds an externally produced batch of change events to the
// reconciler. On a ConsistencyFault the view is resynchronized from a fresh
// fetch and the fault is not returned.
func (c *Controller[T]) ApplyEvents(ctx context.Context, events []reconcile.ChangeEvent) error {
	err := c.exec.Sync(ctx, func() error {
		return c.deliver(events)
	})
	if err == nil || !errors.Is(err, reconcile.ErrConsistency) {
		return err
	}

	gen := c.fetched.Add(1)
	rows, ferr := Fetch(ctx, c.store, c.req)
	if ferr != nil {
		return errors.Join(err, ferr)
	}
	return c.exec.Sync(ctx, func() error {
		if gen < c.applied {
			c.logger.Warn("View diverged from store, already refreshed", zap.Error(err))
			return nil
		}
		c.applied = gen
		keys, groups := c.req.group(rows)
		c.stage(groups)
		defer c.unstage()
		if rerr := c.resync(err, c.snapshot(keys, groups, false)); rerr != nil {
			return rerr
		}
		c.commit(keys, groups)
		return nil
	})
}

func (c *Controller[T]) deliver(events []reconcile.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := c.rec.BeginBatch(); err != nil {
		return err
	}
	for _, e := range events {
		if err := c.rec.OnEvent(e); err != nil {
			_ = c.rec.EndBatch()
			return err
		}
	}
	return c.rec.EndBatch()
}

// resync applies the log-and-resync policy to consistency faults and
// returns any other error unchanged.
func (c *Controller[T]) resync(err error, snap reconcile.Snapshot) error {
	if !errors.Is(err, reconcile.ErrConsistency) {
		return err
	}
	c.logger.Warn("View diverged from store, resynchronizing", zap.Error(err))
	if rerr := c.rec.Resync(snap); rerr != nil {
		return fmt.Errorf("resync after %v: %w", err, rerr)
	}
	return nil
}

// snapshot builds the target state. With reloads set, rows whose
// fingerprint changed since the last commit are marked Reloaded.
func (c *Controller[T]) snapshot(keys []string, groups [][]T, reloads bool) reconcile.Snapshot {
	snap := reconcile.Snapshot{Sections: make([]reconcile.Section, len(keys))}
	for i, key := range keys {
		ids := make([]reconcile.RowIdentity, len(groups[i]))
		for j, row := range groups[i] {
			id := row.RowID()
			ids[j] = id
			if !reloads {
				continue
			}
			if old, ok := c.fingerprints[id]; ok && old != row.Fingerprint() {
				snap.Reloaded = append(snap.Reloaded, id)
			}
		}
		snap.Sections[i] = reconcile.Section{Key: key, Rows: ids}
	}
	return snap
}

func (c *Controller[T]) stage(groups [][]T) {
	c.pending = make(map[reconcile.RowIdentity]T)
	for _, g := range groups {
		for _, row := range g {
			c.pending[row.RowID()] = row
		}
	}
}

func (c *Controller[T]) unstage() {
	c.pending = nil
}

func (c *Controller[T]) commit(keys []string, groups [][]T) {
	c.keys = keys
	c.sections = groups
	c.fingerprints = make(map[reconcile.RowIdentity]string)
	for _, g := range groups {
		for _, row := range g {
			c.fingerprints[row.RowID()] = row.Fingerprint()
		}
	}
}

// Objects returns the committed rows in display order. Call it on the
// executor goroutine.
func (c *Controller[T]) Objects() []T {
	var out []T
	for _, g := range c.sections {
		out = append(out, g...)
	}
	return out
}

// Object returns the row shown at pos. Call it on the executor goroutine.
func (c *Controller[T]) Object(pos reconcile.Position) (T, bool) {
	var zero T
	if pos.Section < 0 || pos.Section >= len(c.sections) {
		return zero, false
	}
	g := c.sections[pos.Section]
	if pos.Offset < 0 || pos.Offset >= len(g) {
		return zero, false
	}
	return g[pos.Offset], true
}

// Lookup returns the row with identity id, preferring rows that are being
// delivered over committed ones. Call it on the executor goroutine.
func (c *Controller[T]) Lookup(id reconcile.RowIdentity) (T, bool) {
	if row, ok := c.pending[id]; ok {
		return row, true
	}
	for _, g := range c.sections {
		for _, row := range g {
			if row.RowID() == id {
				return row, true
			}
		}
	}
	var zero T
	return zero, false
}

// SectionKeys returns the committed section keys.
func (c *Controller[T]) SectionKeys() []string {
	return append([]string(nil), c.keys...)
}

// Reconciler returns the reconciler the controller feeds.
func (c *Controller[T]) Reconciler() *reconcile.Reconciler {
	return c.rec
}
