package reconcile

// ViewState is the reconciler's record of which identity occupies which
// position in the view, plus the current selection.
//
// A ViewState is only ever mutated by the Reconciler that owns it. Callers get
// copies.
type ViewState struct {
	sections []Section
	loaded   bool
	selected RowIdentity

	// retired holds the identities deleted since this state was created or
	// cloned. A batch works on a clone, so it spans exactly one batch.
	retired map[RowIdentity]struct{}
}

func newState(sections []Section) *ViewState {
	s := &ViewState{}
	s.sections = copySections(sections)
	return s
}

func copySections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, sec := range sections {
		rows := make([]RowIdentity, len(sec.Rows))
		copy(rows, sec.Rows)
		out[i] = Section{Key: sec.Key, Rows: rows}
	}
	return out
}

// clone copies the state without its retired identities.
func (v *ViewState) clone() *ViewState {
	return &ViewState{
		sections: copySections(v.sections),
		loaded:   v.loaded,
		selected: v.selected,
	}
}

// Sections returns a copy of the tracked sections.
func (v *ViewState) Sections() []Section {
	return copySections(v.sections)
}

// Snapshot returns the tracked state as a Snapshot.
func (v *ViewState) Snapshot() Snapshot {
	return Snapshot{Sections: v.Sections()}
}

// Loaded reports whether the state was ever populated.
func (v *ViewState) Loaded() bool {
	return v.loaded
}

// Len returns the number of rows across all sections.
func (v *ViewState) Len() int {
	n := 0
	for _, sec := range v.sections {
		n += len(sec.Rows)
	}
	return n
}

// IdentityAt returns the identity at pos.
func (v *ViewState) IdentityAt(pos Position) (RowIdentity, bool) {
	if pos.Section < 0 || pos.Section >= len(v.sections) {
		return "", false
	}
	rows := v.sections[pos.Section].Rows
	if pos.Offset < 0 || pos.Offset >= len(rows) {
		return "", false
	}
	return rows[pos.Offset], true
}

// Find returns the position of id.
func (v *ViewState) Find(id RowIdentity) (Position, bool) {
	for si, sec := range v.sections {
		for off, row := range sec.Rows {
			if row == id {
				return Position{Section: si, Offset: off}, true
			}
		}
	}
	return Position{}, false
}

// Retired reports whether id was deleted since the state was cloned.
func (v *ViewState) Retired(id RowIdentity) bool {
	_, ok := v.retired[id]
	return ok
}

func (v *ViewState) retire(id RowIdentity) {
	if v.retired == nil {
		v.retired = make(map[RowIdentity]struct{})
	}
	v.retired[id] = struct{}{}
	if v.selected == id {
		v.selected = ""
	}
}

// Selection returns the selected identity and its current position.
func (v *ViewState) Selection() (RowIdentity, Position, bool) {
	if v.selected == "" {
		return "", Position{}, false
	}
	pos, ok := v.Find(v.selected)
	if !ok {
		return "", Position{}, false
	}
	return v.selected, pos, true
}

func (v *ViewState) sectionIndex(key string) int {
	for i, sec := range v.sections {
		if sec.Key == key {
			return i
		}
	}
	return -1
}

// apply validates e against the state and mutates it. On error the state is
// left untouched.
func (v *ViewState) apply(e ChangeEvent) (Operation, error) {
	switch e.Kind {
	case Insert:
		return v.applyInsert(e)
	case Delete:
		return v.applyDelete(e)
	case Move:
		return v.applyMove(e)
	case Update:
		return v.applyUpdate(e)
	case InsertSection:
		return v.applyInsertSection(e)
	case DeleteSection:
		return v.applyDeleteSection(e)
	default:
		return Operation{}, fault(e.Kind, nil, e.ID, "unknown change kind")
	}
}

// rowAt resolves the row an event refers to and checks the optional identity.
func (v *ViewState) rowAt(e ChangeEvent) (RowIdentity, error) {
	if e.Old == nil {
		return "", fault(e.Kind, nil, e.ID, "missing old position")
	}
	id, ok := v.IdentityAt(*e.Old)
	if !ok {
		return "", fault(e.Kind, e.Old, e.ID, "no row at position")
	}
	if e.ID != "" && e.ID != id {
		return "", fault(e.Kind, e.Old, e.ID, "row at position is %s", id)
	}
	return id, nil
}

func (v *ViewState) applyInsert(e ChangeEvent) (Operation, error) {
	if e.ID == "" {
		return Operation{}, fault(Insert, e.New, "", "missing identity")
	}
	if e.New == nil {
		return Operation{}, fault(Insert, nil, e.ID, "missing new position")
	}
	if existing, ok := v.Find(e.ID); ok {
		return Operation{}, fault(Insert, e.New, e.ID, "identity already shown at %s", existing)
	}
	if v.Retired(e.ID) {
		return Operation{}, fault(Insert, e.New, e.ID, "identity was deleted earlier in the batch")
	}
	to := *e.New
	if to.Section < 0 || to.Section >= len(v.sections) {
		return Operation{}, fault(Insert, e.New, e.ID, "no such section")
	}
	rows := v.sections[to.Section].Rows
	if to.Offset < 0 || to.Offset > len(rows) {
		return Operation{}, fault(Insert, e.New, e.ID, "offset out of range")
	}
	v.sections[to.Section].Rows = insertAt(rows, to.Offset, e.ID)
	return Operation{Kind: Insert, ID: e.ID, To: to}, nil
}

func (v *ViewState) applyDelete(e ChangeEvent) (Operation, error) {
	id, err := v.rowAt(e)
	if err != nil {
		return Operation{}, err
	}
	from := *e.Old
	v.sections[from.Section].Rows = removeAt(v.sections[from.Section].Rows, from.Offset)
	v.retire(id)
	return Operation{Kind: Delete, ID: id, From: from}, nil
}

func (v *ViewState) applyMove(e ChangeEvent) (Operation, error) {
	id, err := v.rowAt(e)
	if err != nil {
		return Operation{}, err
	}
	if e.New == nil {
		return Operation{}, fault(Move, nil, id, "missing new position")
	}
	from, to := *e.Old, *e.New
	if to.Section < 0 || to.Section >= len(v.sections) {
		return Operation{}, fault(Move, e.New, id, "no such section")
	}
	limit := len(v.sections[to.Section].Rows)
	if to.Section == from.Section {
		limit--
	}
	if to.Offset < 0 || to.Offset > limit {
		return Operation{}, fault(Move, e.New, id, "offset out of range")
	}
	v.sections[from.Section].Rows = removeAt(v.sections[from.Section].Rows, from.Offset)
	v.sections[to.Section].Rows = insertAt(v.sections[to.Section].Rows, to.Offset, id)
	return Operation{Kind: Move, ID: id, From: from, To: to}, nil
}

func (v *ViewState) applyUpdate(e ChangeEvent) (Operation, error) {
	id, err := v.rowAt(e)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Kind: Update, ID: id, From: *e.Old}, nil
}

func (v *ViewState) applyInsertSection(e ChangeEvent) (Operation, error) {
	if e.New == nil {
		return Operation{}, fault(InsertSection, nil, "", "missing new position")
	}
	index := e.New.Section
	if index < 0 || index > len(v.sections) {
		return Operation{}, fault(InsertSection, e.New, "", "section index out of range")
	}
	if v.sectionIndex(e.SectionKey) >= 0 {
		return Operation{}, fault(InsertSection, e.New, "", "section %q already shown", e.SectionKey)
	}
	v.sections = append(v.sections, Section{})
	copy(v.sections[index+1:], v.sections[index:])
	v.sections[index] = Section{Key: e.SectionKey, Rows: []RowIdentity{}}
	return Operation{Kind: InsertSection, To: Position{Section: index}, SectionKey: e.SectionKey}, nil
}

func (v *ViewState) applyDeleteSection(e ChangeEvent) (Operation, error) {
	if e.Old == nil {
		return Operation{}, fault(DeleteSection, nil, "", "missing old position")
	}
	index := e.Old.Section
	if index < 0 || index >= len(v.sections) {
		return Operation{}, fault(DeleteSection, e.Old, "", "no such section")
	}
	for _, row := range v.sections[index].Rows {
		v.retire(row)
	}
	v.sections = append(v.sections[:index], v.sections[index+1:]...)
	return Operation{Kind: DeleteSection, From: Position{Section: index}}, nil
}

func insertAt(rows []RowIdentity, i int, id RowIdentity) []RowIdentity {
	rows = append(rows, "")
	copy(rows[i+1:], rows[i:])
	rows[i] = id
	return rows
}

func removeAt(rows []RowIdentity, i int) []RowIdentity {
	return append(rows[:i], rows[i+1:]...)
}
