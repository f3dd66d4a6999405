package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrConsistency is matched by every ConsistencyFault through errors.Is.
	ErrConsistency = errors.New("consistency fault")

	// ErrBatchOpen is returned by BeginBatch while a batch is still open.
	ErrBatchOpen = errors.New("batch already open")

	// ErrNoBatch is returned by OnEvent and EndBatch outside a batch.
	ErrNoBatch = errors.New("no open batch")

	// ErrBatchAborted is returned for events delivered to a batch that was
	// terminated by a consistency fault.
	ErrBatchAborted = errors.New("batch aborted by consistency fault")

	// ErrWrongMode is returned when an inbound method of the other mode is used.
	ErrWrongMode = errors.New("reconciler mode mismatch")

	// ErrNoRow is returned when selecting a position that holds no row.
	ErrNoRow = errors.New("no row at position")
)

// ConsistencyFault reports that the upstream store and the tracked view state
// have diverged. Nothing of the offending batch or snapshot has been applied.
type ConsistencyFault struct {
	// Op is the event or operation kind being applied.
	Op ChangeKind

	// Position is the position the fault refers to, if any.
	Position *Position

	// ID is the identity the fault refers to, if any.
	ID RowIdentity

	// Reason is a short description.
	Reason string
}

func (f *ConsistencyFault) Error() string {
	msg := "consistency fault"
	if f.Op != "" {
		msg += " on " + string(f.Op)
	}
	if f.Position != nil {
		msg += " at " + f.Position.String()
	}
	if f.ID != "" {
		msg += fmt.Sprintf(" (id %s)", f.ID)
	}
	return msg + ": " + f.Reason
}

// Is makes errors.Is(err, ErrConsistency) hold for every fault.
func (f *ConsistencyFault) Is(target error) bool {
	return target == ErrConsistency
}

func fault(op ChangeKind, pos *Position, id RowIdentity, format string, args ...any) *ConsistencyFault {
	var p *Position
	if pos != nil {
		cp := *pos
		p = &cp
	}
	return &ConsistencyFault{Op: op, Position: p, ID: id, Reason: fmt.Sprintf(format, args...)}
}
