package reconcile

import "sort"

// Diff computes the operations that turn current into target.
//
// Identities absent from the target are deleted, new ones inserted, and rows
// that survive are only moved when they fall outside the longest run that
// already keeps its relative order. A surviving identity is never emitted as
// a delete+insert pair. Identities listed in target.Reloaded that survive get
// a content update at their final position.
//
// If the relative order of surviving sections changes the plan asks for a
// reload instead of a diff.
func Diff(current []Section, target Snapshot) (*Plan, error) {
	return diffState(newState(current), target)
}

// ValidateSnapshot rejects snapshots whose ordering would be ambiguous.
func ValidateSnapshot(s Snapshot) error {
	keys := make(map[string]struct{}, len(s.Sections))
	seen := make(map[RowIdentity]Position, s.Len())
	for si, sec := range s.Sections {
		if _, dup := keys[sec.Key]; dup {
			return fault(InsertSection, &Position{Section: si}, "", "duplicate section key %q", sec.Key)
		}
		keys[sec.Key] = struct{}{}
		for off, id := range sec.Rows {
			pos := Position{Section: si, Offset: off}
			if id == "" {
				return fault(Insert, &pos, "", "empty identity")
			}
			if prev, dup := seen[id]; dup {
				return fault(Insert, &pos, id, "duplicate identity, first seen at %s", prev)
			}
			seen[id] = pos
		}
	}
	return nil
}

func diffState(state *ViewState, target Snapshot) (*Plan, error) {
	if err := ValidateSnapshot(target); err != nil {
		return nil, err
	}

	work := state.clone()
	plan := &Plan{}

	targetSections := make(map[string]int, len(target.Sections))
	for i, sec := range target.Sections {
		targetSections[sec.Key] = i
	}
	targetRows := make(map[RowIdentity]struct{}, target.Len())
	for _, sec := range target.Sections {
		for _, id := range sec.Rows {
			targetRows[id] = struct{}{}
		}
	}

	// Surviving sections must keep their relative order.
	last := -1
	for _, sec := range work.sections {
		ti, ok := targetSections[sec.Key]
		if !ok {
			continue
		}
		if ti < last {
			plan.Reload = true
			return plan, nil
		}
		last = ti
	}

	survivors := make(map[RowIdentity]struct{})
	emit := func(e ChangeEvent) {
		op, err := work.apply(e)
		if err != nil {
			// Every event below is derived from work itself.
			panic(err)
		}
		plan.Operations = append(plan.Operations, op)
		plan.Summary.count(op.Kind)
	}

	// 1. Rows that disappear, back to front so offsets stay valid.
	for si := len(work.sections) - 1; si >= 0; si-- {
		rows := work.sections[si].Rows
		for off := len(rows) - 1; off >= 0; off-- {
			id := rows[off]
			if _, keep := targetRows[id]; keep {
				survivors[id] = struct{}{}
				continue
			}
			emit(DeleteEvent(Position{Section: si, Offset: off}))
		}
	}

	// 2. New sections, each right after its target predecessor.
	for ti, sec := range target.Sections {
		if work.sectionIndex(sec.Key) >= 0 {
			continue
		}
		index := 0
		if ti > 0 {
			index = work.sectionIndex(target.Sections[ti-1].Key) + 1
		}
		emit(InsertSectionEvent(index, sec.Key))
	}

	// 3. Rows, section by section. Each row that is not anchored goes right
	// after its target predecessor.
	for _, sec := range target.Sections {
		si := work.sectionIndex(sec.Key)
		anchored := stableRows(work, si, sec.Rows)
		for i, id := range sec.Rows {
			if _, ok := anchored[id]; ok {
				continue
			}
			to := 0
			if i > 0 {
				prev, _ := work.Find(sec.Rows[i-1])
				to = prev.Offset + 1
			}
			from, exists := work.Find(id)
			if !exists {
				emit(InsertEvent(id, Position{Section: si, Offset: to}))
				continue
			}
			if from.Section == si && from.Offset < to {
				to--
			}
			if from.Section == si && from.Offset == to {
				continue
			}
			emit(MoveEvent(from, Position{Section: si, Offset: to}))
		}
	}

	// 4. Sections that disappear. They are empty by now.
	for si := len(work.sections) - 1; si >= 0; si-- {
		if _, keep := targetSections[work.sections[si].Key]; !keep {
			emit(DeleteSectionEvent(si))
		}
	}

	// 5. Content refreshes for surviving rows.
	reloaded := make(map[RowIdentity]struct{}, len(target.Reloaded))
	for _, id := range target.Reloaded {
		if _, dup := reloaded[id]; dup {
			continue
		}
		reloaded[id] = struct{}{}
		if _, ok := survivors[id]; !ok {
			continue
		}
		pos, _ := work.Find(id)
		emit(UpdateEvent(pos))
	}

	work.loaded = true
	work.retired = nil
	plan.final = work
	return plan, nil
}

// stableRows returns the rows of section si that can stay where they are: the
// longest subsequence of target order that is already increasing in the
// current offsets.
func stableRows(work *ViewState, si int, target []RowIdentity) map[RowIdentity]struct{} {
	offsets := make(map[RowIdentity]int, len(work.sections[si].Rows))
	for off, id := range work.sections[si].Rows {
		offsets[id] = off
	}
	var seq []int
	var ids []RowIdentity
	for _, id := range target {
		if off, ok := offsets[id]; ok {
			seq = append(seq, off)
			ids = append(ids, id)
		}
	}
	keep := make(map[RowIdentity]struct{}, len(seq))
	for _, i := range longestIncreasing(seq) {
		keep[ids[i]] = struct{}{}
	}
	return keep
}

// longestIncreasing returns the indexes of a longest strictly increasing
// subsequence of seq, in O(n log n).
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}
	tails := make([]int, 0, len(seq)) // indexes into seq
	prev := make([]int, len(seq))
	for i, v := range seq {
		j := sort.Search(len(tails), func(k int) bool { return seq[tails[k]] >= v })
		if j > 0 {
			prev[i] = tails[j-1]
		} else {
			prev[i] = -1
		}
		if j == len(tails) {
			tails = append(tails, i)
		} else {
			tails[j] = i
		}
	}
	out := make([]int, len(tails))
	for i, k := len(tails)-1, tails[len(tails)-1]; i >= 0; i, k = i-1, prev[k] {
		out[i] = k
	}
	return out
}
