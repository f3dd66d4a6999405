package tableview

import (
	"time"

	"reminders/core/reconcile"

	"go.uber.org/zap"
)

// CellProvider renders the content of a row from its identity.
type CellProvider func(id reconcile.RowIdentity) string

// Animation describes how a change is shown.
type Animation string

const (
	AnimationFadeIn     Animation = "fade_in"
	AnimationFadeOut    Animation = "fade_out"
	AnimationMove       Animation = "move"
	AnimationReload     Animation = "reload"
	AnimationDeferred   Animation = "deferred"
	AnimationSectionIn  Animation = "section_in"
	AnimationSectionOut Animation = "section_out"
	AnimationReplace    Animation = "replace"
)

// Change is one animated row or section change within a transition.
type Change struct {
	Kind      reconcile.ChangeKind  `json:"kind"`
	ID        reconcile.RowIdentity `json:"id,omitempty"`
	From      *reconcile.Position   `json:"from,omitempty"`
	To        *reconcile.Position   `json:"to,omitempty"`
	Animation Animation             `json:"animation"`
}

// Transition is a group of changes animated together.
type Transition struct {
	Seq     int       `json:"seq"`
	Changes []Change  `json:"changes"`
	At      time.Time `json:"at"`
}

// Row is a materialized row.
type Row struct {
	ID    reconcile.RowIdentity `json:"id"`
	Text  string                `json:"text"`
	Draft string                `json:"draft,omitempty"`
	stale bool
}

// SectionRows is a section as rendered.
type SectionRows struct {
	Key  string `json:"key"`
	Rows []Row  `json:"rows"`
}

// Config holds table view settings.
type Config struct {
	// VisibleRows is how many rows, counted from the top, are on screen.
	// Refreshing a row below that is deferred until it is rendered.
	// Zero means every row is visible.
	VisibleRows int

	// MaxTransitions bounds the kept transition history.
	MaxTransitions int
}

type section struct {
	key  string
	rows []*Row
}

// TableView is an in-memory list view. It is not safe for concurrent use.
type TableView struct {
	cfg      Config
	provider CellProvider
	logger   *zap.Logger

	sections    []*section
	depth       int
	pending     []Change
	transitions []Transition
	seq         int
}

// New creates an empty table view.
func New(cfg Config, provider CellProvider, logger *zap.Logger) *TableView {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTransitions <= 0 {
		cfg.MaxTransitions = 32
	}
	return &TableView{cfg: cfg, provider: provider, logger: logger}
}

var _ reconcile.ListView = (*TableView)(nil)

// BeginUpdates starts coalescing changes. Calls nest.
func (t *TableView) BeginUpdates() {
	t.depth++
}

// EndUpdates closes the outermost update block and records its changes as
// one transition.
func (t *TableView) EndUpdates() {
	if t.depth == 0 {
		t.logger.DPanic("EndUpdates without BeginUpdates")
		return
	}
	t.depth--
	if t.depth == 0 {
		t.commit()
	}
}

func (t *TableView) commit() {
	if len(t.pending) == 0 {
		return
	}
	t.seq++
	t.transitions = append(t.transitions, Transition{Seq: t.seq, Changes: t.pending, At: time.Now()})
	if over := len(t.transitions) - t.cfg.MaxTransitions; over > 0 {
		t.transitions = append([]Transition(nil), t.transitions[over:]...)
	}
	t.pending = nil
}

func (t *TableView) record(c Change) {
	t.pending = append(t.pending, c)
	if t.depth == 0 {
		t.commit()
	}
}

func (t *TableView) valid(section, offset int, inclusive bool) bool {
	if section < 0 || section >= len(t.sections) {
		return false
	}
	n := len(t.sections[section].rows)
	if inclusive {
		return offset >= 0 && offset <= n
	}
	return offset >= 0 && offset < n
}

// globalIndex returns the row's index counted across sections.
func (t *TableView) globalIndex(section, offset int) int {
	n := offset
	for i := 0; i < section; i++ {
		n += len(t.sections[i].rows)
	}
	return n
}

func (t *TableView) visible(section, offset int) bool {
	return t.cfg.VisibleRows == 0 || t.globalIndex(section, offset) < t.cfg.VisibleRows
}

func (t *TableView) render(id reconcile.RowIdentity) string {
	if t.provider == nil {
		return string(id)
	}
	return t.provider(id)
}

// InsertRow materializes a row for id.
func (t *TableView) InsertRow(section, offset int, id reconcile.RowIdentity) {
	if !t.valid(section, offset, true) {
		t.logger.DPanic("InsertRow out of range", zap.Int("section", section), zap.Int("offset", offset))
		return
	}
	row := &Row{ID: id, Text: t.render(id)}
	s := t.sections[section]
	s.rows = append(s.rows, nil)
	copy(s.rows[offset+1:], s.rows[offset:])
	s.rows[offset] = row
	to := reconcile.At(section, offset)
	t.record(Change{Kind: reconcile.Insert, ID: id, To: &to, Animation: AnimationFadeIn})
}

// DeleteRow removes a row.
func (t *TableView) DeleteRow(section, offset int) {
	if !t.valid(section, offset, false) {
		t.logger.DPanic("DeleteRow out of range", zap.Int("section", section), zap.Int("offset", offset))
		return
	}
	s := t.sections[section]
	id := s.rows[offset].ID
	s.rows = append(s.rows[:offset], s.rows[offset+1:]...)
	from := reconcile.At(section, offset)
	t.record(Change{Kind: reconcile.Delete, ID: id, From: &from, Animation: AnimationFadeOut})
}

// MoveRow relocates a row. The row keeps its content and draft.
func (t *TableView) MoveRow(fromSection, fromOffset, toSection, toOffset int) {
	if !t.valid(fromSection, fromOffset, false) {
		t.logger.DPanic("MoveRow source out of range", zap.Int("section", fromSection), zap.Int("offset", fromOffset))
		return
	}
	src := t.sections[fromSection]
	row := src.rows[fromOffset]
	src.rows = append(src.rows[:fromOffset], src.rows[fromOffset+1:]...)
	if !t.valid(toSection, toOffset, true) {
		// Put it back before complaining.
		src.rows = append(src.rows, nil)
		copy(src.rows[fromOffset+1:], src.rows[fromOffset:])
		src.rows[fromOffset] = row
		t.logger.DPanic("MoveRow destination out of range", zap.Int("section", toSection), zap.Int("offset", toOffset))
		return
	}
	dst := t.sections[toSection]
	dst.rows = append(dst.rows, nil)
	copy(dst.rows[toOffset+1:], dst.rows[toOffset:])
	dst.rows[toOffset] = row
	from, to := reconcile.At(fromSection, fromOffset), reconcile.At(toSection, toOffset)
	t.record(Change{Kind: reconcile.Move, ID: row.ID, From: &from, To: &to, Animation: AnimationMove})
}

// RefreshRowContent re-renders a visible row in place; an off-screen row is
// marked stale and re-rendered when it is next read.
func (t *TableView) RefreshRowContent(section, offset int) {
	if !t.valid(section, offset, false) {
		t.logger.DPanic("RefreshRowContent out of range", zap.Int("section", section), zap.Int("offset", offset))
		return
	}
	row := t.sections[section].rows[offset]
	anim := AnimationReload
	if t.visible(section, offset) {
		row.Text = t.render(row.ID)
		row.stale = false
	} else {
		row.stale = true
		anim = AnimationDeferred
	}
	at := reconcile.At(section, offset)
	t.record(Change{Kind: reconcile.Update, ID: row.ID, From: &at, Animation: anim})
}

// InsertSection adds an empty section.
func (t *TableView) InsertSection(index int, key string) {
	if index < 0 || index > len(t.sections) {
		t.logger.DPanic("InsertSection out of range", zap.Int("index", index))
		return
	}
	t.sections = append(t.sections, nil)
	copy(t.sections[index+1:], t.sections[index:])
	t.sections[index] = &section{key: key}
	to := reconcile.Position{Section: index}
	t.record(Change{Kind: reconcile.InsertSection, To: &to, Animation: AnimationSectionIn})
}

// DeleteSection removes a section with its rows.
func (t *TableView) DeleteSection(index int) {
	if index < 0 || index >= len(t.sections) {
		t.logger.DPanic("DeleteSection out of range", zap.Int("index", index))
		return
	}
	t.sections = append(t.sections[:index], t.sections[index+1:]...)
	from := reconcile.Position{Section: index}
	t.record(Change{Kind: reconcile.DeleteSection, From: &from, Animation: AnimationSectionOut})
}

// ReplaceAll drops every row and shows the snapshot without animating rows.
func (t *TableView) ReplaceAll(s reconcile.Snapshot) {
	t.sections = make([]*section, len(s.Sections))
	for i, sec := range s.Sections {
		rows := make([]*Row, len(sec.Rows))
		for j, id := range sec.Rows {
			rows[j] = &Row{ID: id, Text: t.render(id)}
		}
		t.sections[i] = &section{key: sec.Key, rows: rows}
	}
	t.pending = append(t.pending, Change{Kind: "replace", Animation: AnimationReplace})
	if t.depth == 0 {
		t.commit()
	}
}

// Rows renders the table, re-rendering stale rows first.
func (t *TableView) Rows() []SectionRows {
	out := make([]SectionRows, len(t.sections))
	for i, s := range t.sections {
		rows := make([]Row, len(s.rows))
		for j, row := range s.rows {
			if row.stale {
				row.Text = t.render(row.ID)
				row.stale = false
			}
			rows[j] = *row
		}
		out[i] = SectionRows{Key: s.key, Rows: rows}
	}
	return out
}

// Len returns the number of rows across sections.
func (t *TableView) Len() int {
	n := 0
	for _, s := range t.sections {
		n += len(s.rows)
	}
	return n
}

// Identities returns the shown identities per section.
func (t *TableView) Identities() []reconcile.Section {
	out := make([]reconcile.Section, len(t.sections))
	for i, s := range t.sections {
		ids := make([]reconcile.RowIdentity, len(s.rows))
		for j, row := range s.rows {
			ids[j] = row.ID
		}
		out[i] = reconcile.Section{Key: s.key, Rows: ids}
	}
	return out
}

// SetDraft stores in-progress edit text on the row showing id.
func (t *TableView) SetDraft(id reconcile.RowIdentity, draft string) bool {
	for _, s := range t.sections {
		for _, row := range s.rows {
			if row.ID == id {
				row.Draft = draft
				return true
			}
		}
	}
	return false
}

// Transitions returns the recorded transitions, oldest first.
func (t *TableView) Transitions() []Transition {
	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

// Updating reports whether an update block is open.
func (t *TableView) Updating() bool {
	return t.depth > 0
}
