package primitives

import "fmt"

type tableKey struct {
	state StateID
	event EventID
}

// TransitionTable maps (source state, event) to the transitions declared for
// it, in declaration order. Declaration order is priority order.
type TransitionTable struct {
	byKey  map[tableKey][]*TransitionConfig
	all    []*TransitionConfig
	events []EventID
}

// NewTransitionTable validates transitions against g and indexes them.
func NewTransitionTable(g *StateGraph, transitions []*TransitionConfig) (*TransitionTable, error) {
	errs := &ConfigurationError{}
	t := &TransitionTable{byKey: make(map[tableKey][]*TransitionConfig)}
	seen := make(map[EventID]bool)

	for i, tr := range transitions {
		path := []string{"transitions", fmt.Sprint(i)}
		if tr == nil {
			errs.Add(CodeEmptyEvent, "transition is nil", path...)
			continue
		}
		ok := true
		if tr.Event == "" {
			errs.Addf(CodeEmptyEvent, path, "transition %s has no event", tr)
			ok = false
		}
		if !g.Contains(tr.Source) {
			errs.Addf(CodeUnknownSource, path, "source %q does not exist", tr.Source)
			ok = false
		}
		if !g.Contains(tr.Target) {
			errs.Addf(CodeUnknownTarget, path, "target %q does not exist", tr.Target)
			ok = false
		}
		if !ok {
			continue
		}
		switch tr.Kind {
		case Internal:
			if tr.Source != tr.Target {
				errs.Addf(CodeInternalTarget, path, "internal transition %s must target its source", tr)
				continue
			}
		case Local:
			if tr.Source != tr.Target && !g.IsDescendant(tr.Source, tr.Target) && !g.IsDescendant(tr.Target, tr.Source) {
				errs.Addf(CodeLocalUnrelated, path, "local transition %s needs source and target in an ancestor/descendant relation", tr)
				continue
			}
		}

		cp := *tr
		cp.Actions = append([]Action(nil), tr.Actions...)
		key := tableKey{state: cp.Source, event: cp.Event}
		t.byKey[key] = append(t.byKey[key], &cp)
		t.all = append(t.all, &cp)
		if !seen[cp.Event] {
			seen[cp.Event] = true
			t.events = append(t.events, cp.Event)
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

// CandidatesFor returns the transitions declared on state for event, in
// declaration order. The result is a copy.
func (t *TransitionTable) CandidatesFor(state StateID, event EventID) []*TransitionConfig {
	return cloneTransitions(t.byKey[tableKey{state: state, event: event}])
}

// Declares reports whether state declares any transition for event.
func (t *TransitionTable) Declares(state StateID, event EventID) bool {
	return len(t.byKey[tableKey{state: state, event: event}]) > 0
}

// Transitions returns every transition in declaration order.
func (t *TransitionTable) Transitions() []*TransitionConfig {
	return cloneTransitions(t.all)
}

// Events returns the distinct events in order of first declaration.
func (t *TransitionTable) Events() []EventID {
	return append([]EventID(nil), t.events...)
}

// Len returns the number of transitions.
func (t *TransitionTable) Len() int {
	return len(t.all)
}
