package primitives

// MachineBuilder builds a Chart fluently.
//
//	mb := NewMachineBuilder("door", "closed")
//	mb.State("closed").On("open", "opened")
//	mb.State("opened").On("close", "closed")
//	chart, err := mb.Build()
//
// The first child added to a state becomes its initial child unless Initial
// is called.
type MachineBuilder struct {
	cfg    MachineConfig
	states map[StateID]*StateConfig
	errs   ConfigurationError
}

// NewMachineBuilder creates a new MachineBuilder.
func NewMachineBuilder(id string, initial StateID) *MachineBuilder {
	return &MachineBuilder{
		cfg:    MachineConfig{ID: id, Initial: initial},
		states: make(map[StateID]*StateConfig),
	}
}

// CompletionEvent overrides DefaultCompletionEvent.
func (b *MachineBuilder) CompletionEvent(ev EventID) *MachineBuilder {
	b.cfg.CompletionEvent = ev
	return b
}

// Version pins the chart version instead of deriving it from the structure.
func (b *MachineBuilder) Version(v string) *MachineBuilder {
	b.cfg.Version = v
	return b
}

// State returns a builder for the root state id, declaring it on first use.
func (b *MachineBuilder) State(id StateID) *StateBuilder {
	return b.declare(id, "")
}

// StateUnder returns a builder for id declared below parent.
func (b *MachineBuilder) StateUnder(parent, id StateID) *StateBuilder {
	return b.declare(id, parent)
}

// Transition declares a transition between two existing or future states.
func (b *MachineBuilder) Transition(source StateID, event EventID, target StateID, opts ...TransitionOption) *MachineBuilder {
	b.cfg.Transitions = append(b.cfg.Transitions, Transition(source, event, target, opts...))
	return b
}

// Build validates the definition and returns the chart.
func (b *MachineBuilder) Build() (*Chart, error) {
	if b.errs.HasIssues() {
		errs := &ConfigurationError{Issues: append([]ConfigurationIssue(nil), b.errs.Issues...)}
		return nil, errs
	}
	return NewChart(b.cfg)
}

// MustBuild is like Build but panics on error. Intended for tests and
// package level chart definitions.
func (b *MachineBuilder) MustBuild() *Chart {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

func (b *MachineBuilder) declare(id, parent StateID) *StateBuilder {
	if s, ok := b.states[id]; ok {
		if s.Parent != parent {
			b.errs.Addf(CodeDuplicateState, []string{"states", string(id)},
				"state %q declared under %q and %q", id, s.Parent, parent)
		}
		return &StateBuilder{mb: b, state: s}
	}
	s := NewStateConfig(id, parent)
	b.states[id] = s
	b.cfg.States = append(b.cfg.States, s)
	if p, ok := b.states[parent]; ok && parent != "" {
		if p.Initial == "" {
			p.Initial = id
		}
		p.Children = append(p.Children, id)
	}
	return &StateBuilder{mb: b, state: s}
}

// StateBuilder configures one state.
type StateBuilder struct {
	mb    *MachineBuilder
	state *StateConfig
}

// ID returns the id of the state being built.
func (sb *StateBuilder) ID() StateID {
	return sb.state.ID
}

// State declares a child state and returns its builder.
func (sb *StateBuilder) State(id StateID) *StateBuilder {
	return sb.mb.declare(id, sb.state.ID)
}

// Up returns the builder of the parent state, or sb for a root.
func (sb *StateBuilder) Up() *StateBuilder {
	if sb.state.Parent == "" {
		return sb
	}
	return &StateBuilder{mb: sb.mb, state: sb.mb.states[sb.state.Parent]}
}

// Machine returns the owning MachineBuilder.
func (sb *StateBuilder) Machine() *MachineBuilder {
	return sb.mb
}

// Initial sets the initial child.
func (sb *StateBuilder) Initial(child StateID) *StateBuilder {
	sb.state.Initial = child
	return sb
}

// History sets the history kind.
func (sb *StateBuilder) History(k HistoryKind) *StateBuilder {
	sb.state.History = k
	return sb
}

// Final marks the state as final.
func (sb *StateBuilder) Final() *StateBuilder {
	sb.state.Final = true
	return sb
}

// OnEntry appends entry actions.
func (sb *StateBuilder) OnEntry(actions ...Action) *StateBuilder {
	sb.state.OnEntry(actions...)
	return sb
}

// OnExit appends exit actions.
func (sb *StateBuilder) OnExit(actions ...Action) *StateBuilder {
	sb.state.OnExit(actions...)
	return sb
}

// On declares an external transition from this state.
func (sb *StateBuilder) On(event EventID, target StateID, opts ...TransitionOption) *StateBuilder {
	sb.mb.Transition(sb.state.ID, event, target, opts...)
	return sb
}

// OnLocal declares a local transition from this state.
func (sb *StateBuilder) OnLocal(event EventID, target StateID, opts ...TransitionOption) *StateBuilder {
	opts = append(opts, WithKind(Local))
	sb.mb.Transition(sb.state.ID, event, target, opts...)
	return sb
}

// OnInternal declares an internal transition on this state.
func (sb *StateBuilder) OnInternal(event EventID, opts ...TransitionOption) *StateBuilder {
	opts = append(opts, WithKind(Internal))
	sb.mb.Transition(sb.state.ID, event, sb.state.ID, opts...)
	return sb
}

// OnCompletion declares an external transition taken when a final child of
// this state is reached.
func (sb *StateBuilder) OnCompletion(target StateID, opts ...TransitionOption) *StateBuilder {
	ev := sb.mb.cfg.CompletionEvent
	if ev == "" {
		ev = DefaultCompletionEvent
	}
	sb.mb.Transition(sb.state.ID, ev, target, opts...)
	return sb
}
