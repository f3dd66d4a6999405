package reconcile

// ListView is the sink a Reconciler drives. Positions are explicit; the view
// never infers them on its own.
//
// Row commands arrive between BeginUpdates and EndUpdates, except ReplaceAll
// which stands alone. Implementations must apply row commands sequentially:
// each command addresses the state left by the previous one.
type ListView interface {
	// BeginUpdates suspends layout until the matching EndUpdates.
	BeginUpdates()

	// EndUpdates resumes layout and animates the accumulated commands as one
	// transition.
	EndUpdates()

	// InsertRow materializes a row for id at section/offset.
	InsertRow(section, offset int, id RowIdentity)

	// DeleteRow removes the row at section/offset.
	DeleteRow(section, offset int)

	// MoveRow relocates a row without recreating it.
	MoveRow(fromSection, fromOffset, toSection, toOffset int)

	// RefreshRowContent reloads the content of a row in place. A row that is
	// not materialized is left alone and picks up its content lazily.
	RefreshRowContent(section, offset int)

	// InsertSection creates an empty section at index.
	InsertSection(index int, key string)

	// DeleteSection removes the section at index together with its rows.
	DeleteSection(index int)

	// ReplaceAll discards the current rows and shows snapshot as-is.
	ReplaceAll(snapshot Snapshot)
}

// apply forwards a single operation to the view.
func apply(view ListView, op Operation) {
	switch op.Kind {
	case Insert:
		view.InsertRow(op.To.Section, op.To.Offset, op.ID)
	case Delete:
		view.DeleteRow(op.From.Section, op.From.Offset)
	case Move:
		view.MoveRow(op.From.Section, op.From.Offset, op.To.Section, op.To.Offset)
	case Update:
		view.RefreshRowContent(op.From.Section, op.From.Offset)
	case InsertSection:
		view.InsertSection(op.To.Section, op.SectionKey)
	case DeleteSection:
		view.DeleteSection(op.From.Section)
	}
}
