package reconcile

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Recorder receives counters about reconciliation. All methods are called on
// the reconciler's goroutine.
type Recorder interface {
	// Batch is called once per applied batch or snapshot diff.
	Batch(mode Mode)
	// Operation is called once per operation sent to the view.
	Operation(kind ChangeKind)
	// Fault is called once per consistency fault.
	Fault(mode Mode)
	// Reload is called once per ReplaceAll.
	Reload(mode Mode)
}

type nopRecorder struct{}

func (nopRecorder) Batch(Mode)           {}
func (nopRecorder) Operation(ChangeKind) {}
func (nopRecorder) Fault(Mode)           {}
func (nopRecorder) Reload(Mode)          {}

// Config holds everything a Reconciler needs. It is passed at construction;
// nothing is injected afterwards.
type Config struct {
	// Mode selects event-stream or snapshot reconciliation.
	Mode Mode

	// View is the list view being kept in agreement.
	View ListView

	// Logger is optional; a no-op logger is used when nil.
	Logger *zap.Logger

	// Recorder is optional.
	Recorder Recorder

	// MaxDiffOps makes snapshot mode fall back to ReplaceAll when a diff needs
	// more operations than this. Zero disables the fallback.
	MaxDiffOps int
}

// Reconciler keeps a ListView in agreement with an observed result set.
//
// A Reconciler is not safe for concurrent use. It must be driven from the
// goroutine that owns its view.
type Reconciler struct {
	mode     Mode
	view     ListView
	logger   *zap.Logger
	recorder Recorder
	maxOps   int

	state *ViewState
	batch *batch
}

type batch struct {
	work    *ViewState
	ops     []Operation
	aborted error
}

// New creates a Reconciler.
func New(cfg Config) (*Reconciler, error) {
	if cfg.View == nil {
		return nil, errors.New("reconcile: view is required")
	}
	switch cfg.Mode {
	case ModeEvents, ModeSnapshot:
	default:
		return nil, fmt.Errorf("reconcile: unknown mode %q", cfg.Mode)
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Reconciler{
		mode:     cfg.Mode,
		view:     cfg.View,
		logger:   l.With(zap.String("mode", string(cfg.Mode))),
		recorder: rec,
		maxOps:   cfg.MaxDiffOps,
		state:    newState(nil),
	}, nil
}

// Mode returns the mode the reconciler was built with.
func (r *Reconciler) Mode() Mode {
	return r.mode
}

// State returns a copy of the committed view state.
func (r *Reconciler) State() *ViewState {
	return r.state.clone()
}

// Sections returns the committed sections.
func (r *Reconciler) Sections() []Section {
	return r.state.Sections()
}

// InBatch reports whether a batch is open.
func (r *Reconciler) InBatch() bool {
	return r.batch != nil
}

// Load populates the view for the first time with ReplaceAll.
// It is accepted in both modes.
func (r *Reconciler) Load(s Snapshot) error {
	if r.batch != nil {
		return ErrBatchOpen
	}
	return r.replace(s)
}

// Resync replaces the view wholesale. It is the recovery path after a
// ConsistencyFault and also closes any open or aborted batch.
func (r *Reconciler) Resync(s Snapshot) error {
	if err := ValidateSnapshot(s); err != nil {
		r.recordFault(err)
		return err
	}
	if r.batch != nil {
		if r.batch.aborted == nil {
			r.view.EndUpdates()
		}
		r.batch = nil
	}
	r.logger.Info("Resynchronizing view", zap.Int("rows", s.Len()))
	return r.replace(s)
}

func (r *Reconciler) replace(s Snapshot) error {
	if err := ValidateSnapshot(s); err != nil {
		r.recordFault(err)
		return err
	}
	next := newState(s.Sections)
	next.loaded = true
	if r.state.selected != "" {
		if _, ok := next.Find(r.state.selected); ok {
			next.selected = r.state.selected
		}
	}
	r.view.ReplaceAll(Snapshot{Sections: next.Sections()})
	r.state = next
	r.recorder.Reload(r.mode)
	return nil
}

// BeginBatch opens an event batch and suspends the view's layout.
func (r *Reconciler) BeginBatch() error {
	if r.mode != ModeEvents {
		return ErrWrongMode
	}
	if r.batch != nil {
		return ErrBatchOpen
	}
	r.batch = &batch{work: r.state.clone()}
	r.view.BeginUpdates()
	return nil
}

// OnEvent validates e against the batch's working state and queues it.
//
// A ConsistencyFault terminates the batch at once: nothing of it reaches the
// view and the committed state is unchanged.
func (r *Reconciler) OnEvent(e ChangeEvent) error {
	if r.mode != ModeEvents {
		return ErrWrongMode
	}
	if r.batch == nil {
		return ErrNoBatch
	}
	if r.batch.aborted != nil {
		return fmt.Errorf("%w: %v", ErrBatchAborted, r.batch.aborted)
	}
	op, err := r.batch.work.apply(e)
	if err != nil {
		r.batch.aborted = err
		r.batch.ops = nil
		r.view.EndUpdates()
		r.recordFault(err)
		return err
	}
	r.batch.ops = append(r.batch.ops, op)
	return nil
}

// EndBatch sends the queued operations to the view in order and resumes
// layout so they animate as one transition. Closing an aborted batch only
// clears it.
func (r *Reconciler) EndBatch() error {
	if r.mode != ModeEvents {
		return ErrWrongMode
	}
	b := r.batch
	if b == nil {
		return ErrNoBatch
	}
	r.batch = nil
	if b.aborted != nil {
		r.logger.Debug("Closed aborted batch")
		return nil
	}
	for _, op := range b.ops {
		apply(r.view, op)
		r.recorder.Operation(op.Kind)
	}
	r.view.EndUpdates()
	b.work.loaded = true
	// The selection may have changed while the batch was open. A row deleted
	// by the batch stays deselected.
	b.work.selected = ""
	if sel := r.state.selected; sel != "" && !b.work.Retired(sel) {
		if _, ok := b.work.Find(sel); ok {
			b.work.selected = sel
		}
	}
	b.work.retired = nil
	r.state = b.work
	r.recorder.Batch(r.mode)
	r.logger.Debug("Applied batch", zap.Int("operations", len(b.ops)))
	return nil
}

// OnSnapshot brings the view to s with the fewest row operations it can.
// The first snapshot, or one the diff deems not worth it, is applied with
// ReplaceAll. A snapshot equal to the current state sends nothing.
func (r *Reconciler) OnSnapshot(s Snapshot) error {
	if r.mode != ModeSnapshot {
		return ErrWrongMode
	}
	if r.batch != nil {
		return ErrBatchOpen
	}
	if !r.state.loaded {
		return r.replace(s)
	}
	plan, err := diffState(r.state, s)
	if err != nil {
		r.recordFault(err)
		return err
	}
	if plan.Reload || (r.maxOps > 0 && len(plan.Operations) > r.maxOps) {
		r.logger.Debug("Snapshot diff not worth applying, reloading",
			zap.Bool("section_reorder", plan.Reload),
			zap.Int("operations", len(plan.Operations)))
		return r.replace(s)
	}
	if len(plan.Operations) == 0 {
		return nil
	}
	ApplyPlan(r.view, plan)
	for _, op := range plan.Operations {
		r.recorder.Operation(op.Kind)
	}
	r.state = plan.final
	r.recorder.Batch(r.mode)
	r.logger.Debug("Applied snapshot diff",
		zap.Int("inserts", plan.Summary.Inserts),
		zap.Int("deletes", plan.Summary.Deletes),
		zap.Int("moves", plan.Summary.Moves),
		zap.Int("updates", plan.Summary.Updates))
	return nil
}

// Select marks the row at pos as selected.
func (r *Reconciler) Select(pos Position) error {
	id, ok := r.state.IdentityAt(pos)
	if !ok {
		return fmt.Errorf("%w %s", ErrNoRow, pos)
	}
	r.state.selected = id
	return nil
}

// SelectIdentity marks the row showing id as selected.
func (r *Reconciler) SelectIdentity(id RowIdentity) (Position, error) {
	pos, ok := r.state.Find(id)
	if !ok {
		return Position{}, fmt.Errorf("%w for %s", ErrNoRow, id)
	}
	r.state.selected = id
	return pos, nil
}

// Deselect clears the selection.
func (r *Reconciler) Deselect() {
	r.state.selected = ""
}

// Selection returns the selected identity and where it is shown now.
func (r *Reconciler) Selection() (RowIdentity, Position, bool) {
	return r.state.Selection()
}

func (r *Reconciler) recordFault(err error) {
	var f *ConsistencyFault
	if errors.As(err, &f) {
		r.recorder.Fault(r.mode)
		r.logger.Warn("Consistency fault", zap.Error(err))
	}
}
