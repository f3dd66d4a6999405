package reconcile

// Plan is the ordered list of operations that turns one state into another.
// Computing a plan never touches a view; ApplyPlan does.
type Plan struct {
	// Operations are in application order, with sequential positions.
	Operations []Operation `json:"operations"`

	// Reload is set when a diff is not worth applying and the view should be
	// replaced wholesale.
	Reload bool `json:"reload"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	final *ViewState
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	Inserts        int `json:"inserts"`
	Deletes        int `json:"deletes"`
	Moves          int `json:"moves"`
	Updates        int `json:"updates"`
	SectionInserts int `json:"section_inserts"`
	SectionDeletes int `json:"section_deletes"`
}

// Empty reports whether the plan changes nothing.
func (p *Plan) Empty() bool {
	return !p.Reload && len(p.Operations) == 0
}

func (s *PlanSummary) count(kind ChangeKind) {
	switch kind {
	case Insert:
		s.Inserts++
	case Delete:
		s.Deletes++
	case Move:
		s.Moves++
	case Update:
		s.Updates++
	case InsertSection:
		s.SectionInserts++
	case DeleteSection:
		s.SectionDeletes++
	}
}

// Events converts the plan into the equivalent change events.
func (p *Plan) Events() []ChangeEvent {
	events := make([]ChangeEvent, len(p.Operations))
	for i, op := range p.Operations {
		events[i] = op.Event()
	}
	return events
}

// ApplyPlan sends the plan to view as one coalesced transition and returns
// the number of operations sent. An empty plan leaves the view alone.
func ApplyPlan(view ListView, plan *Plan) int {
	if len(plan.Operations) == 0 {
		return 0
	}
	view.BeginUpdates()
	for _, op := range plan.Operations {
		apply(view, op)
	}
	view.EndUpdates()
	return len(plan.Operations)
}
