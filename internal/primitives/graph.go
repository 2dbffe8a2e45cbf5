package primitives

import "fmt"

// StateGraph is the immutable state hierarchy. It is a forest: states with an
// empty Parent are roots. Root-to-state paths are computed once at
// construction so ancestor queries never walk the hierarchy.
type StateGraph struct {
	states map[StateID]*StateConfig
	order  []StateID
	roots  []StateID
	paths  map[StateID][]StateID
}

// NewStateGraph validates the given states and builds the hierarchy.
//
// Children lists are derived from the Parent links in declaration order; any
// Children already present on the inputs are replaced. The inputs are copied,
// later changes to them do not affect the graph.
func NewStateGraph(states []*StateConfig) (*StateGraph, error) {
	errs := &ConfigurationError{}
	g := &StateGraph{
		states: make(map[StateID]*StateConfig, len(states)),
		paths:  make(map[StateID][]StateID, len(states)),
	}

	if len(states) == 0 {
		errs.Add(CodeNoStates, "at least one state is required")
		return nil, errs
	}

	for i, s := range states {
		if s == nil || s.ID == "" {
			errs.Addf(CodeEmptyStateID, []string{"states", fmt.Sprint(i)}, "state id is required")
			continue
		}
		if _, dup := g.states[s.ID]; dup {
			errs.Addf(CodeDuplicateState, []string{"states", string(s.ID)}, "state %q declared more than once", s.ID)
			continue
		}
		cp := *s
		cp.Children = nil
		cp.Entry = append([]Action(nil), s.Entry...)
		cp.Exit = append([]Action(nil), s.Exit...)
		g.states[s.ID] = &cp
		g.order = append(g.order, s.ID)
	}

	dangling := make(map[StateID]bool)
	for _, id := range g.order {
		s := g.states[id]
		if s.Parent == "" {
			g.roots = append(g.roots, id)
			continue
		}
		parent, ok := g.states[s.Parent]
		if !ok {
			errs.Addf(CodeUnknownParent, []string{"states", string(id)}, "parent %q of state %q does not exist", s.Parent, id)
			dangling[id] = true
			continue
		}
		parent.Children = append(parent.Children, id)
	}

	if len(g.roots) == 0 && len(g.order) > 0 {
		errs.Add(CodeCycle, "no root state: every state has a parent")
	}

	for _, id := range g.order {
		path, ok := g.walkToRoot(id)
		if !ok {
			if g.reachesDangling(id, dangling) {
				continue
			}
			errs.Addf(CodeCycle, []string{"states", string(id)}, "state %q is part of a parent cycle", id)
			continue
		}
		g.paths[id] = path
	}

	for _, id := range g.order {
		s := g.states[id]
		path := []string{"states", string(id)}
		if s.IsComposite() {
			switch {
			case s.Initial == "":
				errs.Addf(CodeMissingInitial, path, "composite state %q has no initial child", id)
			case !s.HasChild(s.Initial):
				errs.Addf(CodeForeignInitial, path, "initial %q of state %q is not one of its children", s.Initial, id)
			}
			if s.Final {
				errs.Addf(CodeFinalWithChildren, path, "final state %q cannot have children", id)
			}
		} else {
			if s.Initial != "" {
				errs.Addf(CodeForeignInitial, path, "initial %q of state %q is not one of its children", s.Initial, id)
			}
			if s.History != HistoryNone {
				errs.Addf(CodeHistoryOnLeaf, path, "leaf state %q cannot declare %s history", id, s.History)
			}
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return g, nil
}

// walkToRoot returns the root-to-id path, or false when a cycle or a dangling
// parent prevents reaching a root.
func (g *StateGraph) walkToRoot(id StateID) ([]StateID, bool) {
	var rev []StateID
	cur := id
	for steps := 0; steps <= len(g.order); steps++ {
		s, ok := g.states[cur]
		if !ok {
			return nil, false
		}
		rev = append(rev, cur)
		if s.Parent == "" {
			path := make([]StateID, len(rev))
			for i := range rev {
				path[i] = rev[len(rev)-1-i]
			}
			return path, true
		}
		cur = s.Parent
	}
	return nil, false
}

// reachesDangling reports whether following parents from id arrives at a
// state whose parent is missing.
func (g *StateGraph) reachesDangling(id StateID, dangling map[StateID]bool) bool {
	cur := id
	for steps := 0; steps <= len(g.order); steps++ {
		if dangling[cur] {
			return true
		}
		s, ok := g.states[cur]
		if !ok || s.Parent == "" {
			return false
		}
		cur = s.Parent
	}
	return false
}

// State returns a copy of the definition of id.
func (g *StateGraph) State(id StateID) (*StateConfig, bool) {
	s, ok := g.states[id]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// Contains reports whether id belongs to the graph.
func (g *StateGraph) Contains(id StateID) bool {
	_, ok := g.states[id]
	return ok
}

// Len returns the number of states.
func (g *StateGraph) Len() int {
	return len(g.order)
}

// Roots returns the root states in declaration order.
func (g *StateGraph) Roots() []StateID {
	return append([]StateID(nil), g.roots...)
}

// States returns copies of every state in declaration order.
func (g *StateGraph) States() []*StateConfig {
	out := make([]*StateConfig, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.states[id].clone())
	}
	return out
}

// Children returns the ordered children of id.
func (g *StateGraph) Children(id StateID) []StateID {
	s, ok := g.states[id]
	if !ok {
		return nil
	}
	return append([]StateID(nil), s.Children...)
}

// Parent returns the parent of id, empty for roots.
func (g *StateGraph) Parent(id StateID) (StateID, error) {
	s, ok := g.states[id]
	if !ok {
		return "", unknownState(id)
	}
	return s.Parent, nil
}

// AncestorsOf returns the path from the root down to id, both included.
func (g *StateGraph) AncestorsOf(id StateID) ([]StateID, error) {
	p, ok := g.paths[id]
	if !ok {
		return nil, unknownState(id)
	}
	return append([]StateID(nil), p...), nil
}

// Depth returns the number of proper ancestors of id. Roots have depth 0.
func (g *StateGraph) Depth(id StateID) int {
	return len(g.paths[id]) - 1
}

// IsDescendant reports whether a is a proper descendant of b. Unknown ids are
// never descendants.
func (g *StateGraph) IsDescendant(a, b StateID) bool {
	pa, ok := g.paths[a]
	if !ok || a == b {
		return false
	}
	if _, ok := g.states[b]; !ok {
		return false
	}
	for _, anc := range pa[:len(pa)-1] {
		if anc == b {
			return true
		}
	}
	return false
}

// IsLeaf reports whether id exists and has no children.
func (g *StateGraph) IsLeaf(id StateID) bool {
	s, ok := g.states[id]
	return ok && s.IsLeaf()
}

// LowestCommonAncestor returns the deepest state that is an ancestor-or-self
// of both a and b. It returns an empty id when they live in different trees
// of the forest.
func (g *StateGraph) LowestCommonAncestor(a, b StateID) (StateID, error) {
	pa, ok := g.paths[a]
	if !ok {
		return "", unknownState(a)
	}
	pb, ok := g.paths[b]
	if !ok {
		return "", unknownState(b)
	}
	var lca StateID
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			break
		}
		lca = pa[i]
	}
	return lca, nil
}
