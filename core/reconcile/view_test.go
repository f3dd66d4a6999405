package reconcile

import (
	"fmt"
)

// recordingView is a ListView that records every call and keeps its own
// sequentially-applied copy of the rows.
type recordingView struct {
	calls    []string
	sections []Section
	depth    int
}

func (v *recordingView) BeginUpdates() {
	v.depth++
	v.calls = append(v.calls, "begin")
}

func (v *recordingView) EndUpdates() {
	v.depth--
	v.calls = append(v.calls, "end")
}

func (v *recordingView) InsertRow(section, offset int, id RowIdentity) {
	v.calls = append(v.calls, fmt.Sprintf("insert %s %d:%d", id, section, offset))
	v.sections[section].Rows = insertAt(v.sections[section].Rows, offset, id)
}

func (v *recordingView) DeleteRow(section, offset int) {
	v.calls = append(v.calls, fmt.Sprintf("delete %d:%d", section, offset))
	v.sections[section].Rows = removeAt(v.sections[section].Rows, offset)
}

func (v *recordingView) MoveRow(fromSection, fromOffset, toSection, toOffset int) {
	v.calls = append(v.calls, fmt.Sprintf("move %d:%d %d:%d", fromSection, fromOffset, toSection, toOffset))
	id := v.sections[fromSection].Rows[fromOffset]
	v.sections[fromSection].Rows = removeAt(v.sections[fromSection].Rows, fromOffset)
	v.sections[toSection].Rows = insertAt(v.sections[toSection].Rows, toOffset, id)
}

func (v *recordingView) RefreshRowContent(section, offset int) {
	v.calls = append(v.calls, fmt.Sprintf("refresh %d:%d", section, offset))
}

func (v *recordingView) InsertSection(index int, key string) {
	v.calls = append(v.calls, fmt.Sprintf("insert section %s %d", key, index))
	v.sections = append(v.sections, Section{})
	copy(v.sections[index+1:], v.sections[index:])
	v.sections[index] = Section{Key: key, Rows: []RowIdentity{}}
}

func (v *recordingView) DeleteSection(index int) {
	v.calls = append(v.calls, fmt.Sprintf("delete section %d", index))
	v.sections = append(v.sections[:index], v.sections[index+1:]...)
}

func (v *recordingView) ReplaceAll(s Snapshot) {
	v.calls = append(v.calls, fmt.Sprintf("replace %d", s.Len()))
	v.sections = copySections(s.Sections)
}

// rowCalls returns the recorded calls except begin/end/replace.
func (v *recordingView) rowCalls() []string {
	var out []string
	for _, c := range v.calls {
		switch {
		case c == "begin", c == "end":
		case len(c) > 7 && c[:7] == "replace":
		default:
			out = append(out, c)
		}
	}
	return out
}

func (v *recordingView) reset() {
	v.calls = nil
}

func ids(s ...string) []RowIdentity {
	out := make([]RowIdentity, len(s))
	for i, x := range s {
		out[i] = RowIdentity(x)
	}
	return out
}
