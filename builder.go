package hsmx

import (
	"strings"

	"github.com/comalice/hsmx/internal/primitives"
)

// MachineBuilder provides a fluent API for constructing charts with
// dot-separated state paths instead of explicit parent links.
//
// A state named "on.playing" is a child of "on"; missing parents are
// declared on the fly. The full path is the StateID.
type MachineBuilder struct {
	mb     *primitives.MachineBuilder
	states map[string]*primitives.StateBuilder
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *MachineBuilder
	state *primitives.StateBuilder
	name  string
}

// NewMachineBuilder creates a new builder for a chart named name that starts
// in initialStateName.
func NewMachineBuilder(name, initialStateName string) *MachineBuilder {
	return &MachineBuilder{
		mb:     primitives.NewMachineBuilder(name, StateID(initialStateName)),
		states: make(map[string]*primitives.StateBuilder),
	}
}

// CompletionEvent overrides DefaultCompletionEvent for this chart.
func (b *MachineBuilder) CompletionEvent(ev EventID) *MachineBuilder {
	b.mb.CompletionEvent(ev)
	return b
}

// State creates or retrieves a state by path.
// Supports dot notation for hierarchical states (e.g., "parent.child").
// A parent declared implicitly starts in the first child declared under it.
func (b *MachineBuilder) State(name string) *StateBuilder {
	return &StateBuilder{b: b, state: b.declare(name), name: name}
}

func (b *MachineBuilder) declare(name string) *primitives.StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	var sb *primitives.StateBuilder
	if parent, _ := splitPath(name); parent != "" {
		b.declare(parent)
		sb = b.mb.StateUnder(StateID(parent), StateID(name))
	} else {
		sb = b.mb.State(StateID(name))
	}
	b.states[name] = sb
	return sb
}

// Build validates the configuration and returns the chart.
func (b *MachineBuilder) Build() (*Chart, error) {
	return b.mb.Build()
}

// BuildMachine builds the chart and a machine running it.
func (b *MachineBuilder) BuildMachine(opts ...Option) (*Machine, error) {
	chart, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewMachine(chart, opts...), nil
}

// splitPath splits a hierarchical path into parent and name components.
// For example, "parent.child" returns ("parent", "child").
// For "child", returns ("", "child").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// ID returns the StateID of the state, its full path.
func (sb *StateBuilder) ID() StateID {
	return StateID(sb.name)
}

// Compound sets the initial child, given by its full path.
func (sb *StateBuilder) Compound(initialStateName string) *StateBuilder {
	sb.state.Initial(StateID(initialStateName))
	return sb
}

// History sets how the state restores its substates on re-entry.
func (sb *StateBuilder) History(kind HistoryKind) *StateBuilder {
	sb.state.History(kind)
	return sb
}

// Final marks this state as final. Entering it fires the completion event
// on its parent.
func (sb *StateBuilder) Final() *StateBuilder {
	sb.state.Final()
	return sb
}

// Entry appends an entry action.
func (sb *StateBuilder) Entry(action Action) *StateBuilder {
	sb.state.OnEntry(action)
	return sb
}

// Exit appends an exit action.
func (sb *StateBuilder) Exit(action Action) *StateBuilder {
	sb.state.OnExit(action)
	return sb
}

// On adds an external transition from this state to targetName when
// eventName occurs. guard and action may be nil.
func (sb *StateBuilder) On(eventName, targetName string, guard Guard, action Action) *StateBuilder {
	sb.state.On(EventID(eventName), StateID(targetName), transitionOptions(guard, action)...)
	return sb
}

// OnLocal adds a local transition. The target must be an ancestor or a
// descendant of this state.
func (sb *StateBuilder) OnLocal(eventName, targetName string, guard Guard, action Action) *StateBuilder {
	sb.state.OnLocal(EventID(eventName), StateID(targetName), transitionOptions(guard, action)...)
	return sb
}

// OnInternal adds an internal transition that doesn't change state.
// The transition action executes but no exit/entry actions are triggered.
func (sb *StateBuilder) OnInternal(eventName string, guard Guard, action Action) *StateBuilder {
	sb.state.OnInternal(EventID(eventName), transitionOptions(guard, action)...)
	return sb
}

// OnCompletion adds the transition taken when a final child of this state
// is entered.
func (sb *StateBuilder) OnCompletion(targetName string, guard Guard, action Action) *StateBuilder {
	sb.state.OnCompletion(StateID(targetName), transitionOptions(guard, action)...)
	return sb
}

func transitionOptions(guard Guard, action Action) []TransitionOption {
	var opts []TransitionOption
	if guard != nil {
		opts = append(opts, WithGuard(guard))
	}
	if action != nil {
		opts = append(opts, WithActions(action))
	}
	return opts
}
