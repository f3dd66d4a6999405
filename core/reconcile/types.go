package reconcile

import "fmt"

// RowIdentity is a stable identifier for one domain entity shown as a row.
// Renaming the entity does not change its identity.
type RowIdentity string

// Position addresses a row by section index and offset within the section.
type Position struct {
	// Section is the index of the section.
	Section int `json:"section"`

	// Offset is the index of the row within the section.
	Offset int `json:"offset"`
}

// At is shorthand for building a Position.
func At(section, offset int) Position {
	return Position{Section: section, Offset: offset}
}

// String renders the position as section:offset.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Section, p.Offset)
}

// Section is an ordered run of rows sharing a grouping key.
// A single implicit section uses the empty key.
type Section struct {
	// Key is the grouping key of the section.
	Key string `json:"key"`

	// Rows holds the identities in display order.
	Rows []RowIdentity `json:"rows"`
}

// Snapshot is the target state after a batch of changes.
type Snapshot struct {
	// Sections holds the target sections in display order.
	Sections []Section `json:"sections"`

	// Reloaded marks identities whose content changed and must be refreshed
	// even when their position did not.
	Reloaded []RowIdentity `json:"reloaded,omitempty"`
}

// Len returns the number of rows across all sections.
func (s Snapshot) Len() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Rows)
	}
	return n
}

// Single builds a snapshot with one implicit section.
func Single(rows ...RowIdentity) Snapshot {
	return Snapshot{Sections: []Section{{Rows: rows}}}
}

// ChangeKind tags a ChangeEvent.
type ChangeKind string

const (
	// Insert materializes a new row at New.
	Insert ChangeKind = "insert"
	// Delete removes the row at Old.
	Delete ChangeKind = "delete"
	// Move relocates the row at Old to New without recreating it.
	Move ChangeKind = "move"
	// Update refreshes the content of the row at Old.
	Update ChangeKind = "update"
	// InsertSection creates an empty section at New.Section.
	InsertSection ChangeKind = "insert_section"
	// DeleteSection removes the section at Old.Section together with its rows.
	DeleteSection ChangeKind = "delete_section"
)

// ChangeEvent describes one mutation of an observed result set.
//
// Positions are interpreted sequentially: each event addresses the state left
// behind by the events before it in the same batch.
type ChangeEvent struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind ChangeKind `json:"kind"`

	// ID is the identity concerned. Required for Insert; when set on other
	// kinds it must match the row found at Old.
	ID RowIdentity `json:"id,omitempty"`

	// Old is the position before the event (Delete, Move, Update, DeleteSection).
	Old *Position `json:"old,omitempty"`

	// New is the position after the event (Insert, Move, InsertSection).
	New *Position `json:"new,omitempty"`

	// SectionKey names the section created by InsertSection.
	SectionKey string `json:"section_key,omitempty"`
}

// InsertEvent builds an Insert event.
func InsertEvent(id RowIdentity, at Position) ChangeEvent {
	return ChangeEvent{Kind: Insert, ID: id, New: &at}
}

// DeleteEvent builds a Delete event.
func DeleteEvent(at Position) ChangeEvent {
	return ChangeEvent{Kind: Delete, Old: &at}
}

// MoveEvent builds a Move event.
func MoveEvent(from, to Position) ChangeEvent {
	return ChangeEvent{Kind: Move, Old: &from, New: &to}
}

// UpdateEvent builds an Update event.
func UpdateEvent(at Position) ChangeEvent {
	return ChangeEvent{Kind: Update, Old: &at}
}

// InsertSectionEvent builds an InsertSection event.
func InsertSectionEvent(index int, key string) ChangeEvent {
	return ChangeEvent{Kind: InsertSection, New: &Position{Section: index}, SectionKey: key}
}

// DeleteSectionEvent builds a DeleteSection event.
func DeleteSectionEvent(index int) ChangeEvent {
	return ChangeEvent{Kind: DeleteSection, Old: &Position{Section: index}}
}

// Operation is one row or section command sent to a ListView.
type Operation struct {
	// Kind is the kind of command.
	Kind ChangeKind `json:"kind"`

	// ID is the identity concerned, when known.
	ID RowIdentity `json:"id,omitempty"`

	// From is the source position (Delete, Move, Update, DeleteSection).
	From Position `json:"from"`

	// To is the destination position (Insert, Move, InsertSection).
	To Position `json:"to"`

	// SectionKey is set for InsertSection.
	SectionKey string `json:"section_key,omitempty"`
}

// Event converts the operation into the equivalent ChangeEvent.
func (o Operation) Event() ChangeEvent {
	switch o.Kind {
	case Insert:
		return InsertEvent(o.ID, o.To)
	case Delete:
		e := DeleteEvent(o.From)
		e.ID = o.ID
		return e
	case Move:
		e := MoveEvent(o.From, o.To)
		e.ID = o.ID
		return e
	case Update:
		e := UpdateEvent(o.From)
		e.ID = o.ID
		return e
	case InsertSection:
		return InsertSectionEvent(o.To.Section, o.SectionKey)
	case DeleteSection:
		return DeleteSectionEvent(o.From.Section)
	default:
		// Keeps the unknown kind so applying the event faults.
		return ChangeEvent{Kind: o.Kind, ID: o.ID}
	}
}

// String renders the operation for logs and the diff command.
func (o Operation) String() string {
	switch o.Kind {
	case Insert:
		return fmt.Sprintf("insert %s at %s", o.ID, o.To)
	case Delete:
		return fmt.Sprintf("delete %s at %s", o.ID, o.From)
	case Move:
		return fmt.Sprintf("move %s %s -> %s", o.ID, o.From, o.To)
	case Update:
		return fmt.Sprintf("update %s at %s", o.ID, o.From)
	case InsertSection:
		return fmt.Sprintf("insert section %q at %d", o.SectionKey, o.To.Section)
	case DeleteSection:
		return fmt.Sprintf("delete section %d", o.From.Section)
	default:
		return fmt.Sprintf("unknown operation %q", string(o.Kind))
	}
}

// Mode selects which inbound contract a Reconciler accepts.
type Mode string

const (
	// ModeEvents accepts BeginBatch/OnEvent/EndBatch.
	ModeEvents Mode = "events"
	// ModeSnapshot accepts OnSnapshot.
	ModeSnapshot Mode = "snapshot"
)
