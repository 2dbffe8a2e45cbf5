package primitives

// StateInfo is the read-only view of a state handed to a Visitor.
type StateInfo struct {
	ID       StateID
	Parent   StateID
	Children []StateID
	Initial  StateID
	History  HistoryKind
	Final    bool
	Depth    int
	Entry    int // number of entry actions
	Exit     int // number of exit actions
}

// TransitionInfo is the read-only view of a transition handed to a Visitor.
type TransitionInfo struct {
	Index   int
	Source  StateID
	Target  StateID
	Event   EventID
	Kind    TransitionKind
	Guarded bool
	Actions int
}

// Visitor receives a chart walk. States are visited depth-first in
// declaration order: EnterState before the children, LeaveState after them.
// Transitions follow once all states are done, in declaration order.
type Visitor interface {
	EnterState(StateInfo)
	LeaveState(StateInfo)
	VisitTransition(TransitionInfo)
}

// Accept walks the chart with v.
func (c *Chart) Accept(v Visitor) {
	for _, root := range c.graph.Roots() {
		c.walkState(v, root)
	}
	for i, t := range c.table.all {
		v.VisitTransition(TransitionInfo{
			Index:   i,
			Source:  t.Source,
			Target:  t.Target,
			Event:   t.Event,
			Kind:    t.Kind,
			Guarded: t.Guard != nil,
			Actions: len(t.Actions),
		})
	}
}

func (c *Chart) walkState(v Visitor, id StateID) {
	s := c.graph.states[id]
	info := StateInfo{
		ID:       s.ID,
		Parent:   s.Parent,
		Children: append([]StateID(nil), s.Children...),
		Initial:  s.Initial,
		History:  s.History,
		Final:    s.Final,
		Depth:    c.graph.Depth(id),
		Entry:    len(s.Entry),
		Exit:     len(s.Exit),
	}
	v.EnterState(info)
	for _, child := range s.Children {
		c.walkState(v, child)
	}
	v.LeaveState(info)
}
