package primitives

import (
	"context"
	"fmt"
	"strings"
)

// Action is a side effect attached to a state entry, a state exit or a
// transition. from and to are the declared source and target of the
// transition being executed.
type Action func(ctx context.Context, from, to StateID, evt Event) error

// Guard decides whether a transition may fire. A guard that returns an error
// is treated as not satisfied.
type Guard func(ctx context.Context, from, to StateID, evt Event) (bool, error)

// TransitionKind selects which states a transition leaves and re-enters.
type TransitionKind int

const (
	// External exits up to the least common ancestor and enters down to the target.
	External TransitionKind = iota
	// Local does not exit the outer one of an ancestor/descendant pair.
	Local
	// Internal runs its actions only.
	Internal
)

func (k TransitionKind) String() string {
	switch k {
	case External:
		return "external"
	case Local:
		return "local"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("TransitionKind(%d)", int(k))
	}
}

// ParseTransitionKind parses the textual form produced by String. The empty
// string maps to External.
func ParseTransitionKind(s string) (TransitionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "external":
		return External, nil
	case "local":
		return Local, nil
	case "internal":
		return Internal, nil
	default:
		return External, fmt.Errorf("unknown transition kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TransitionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TransitionKind) UnmarshalText(text []byte) error {
	v, err := ParseTransitionKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// TransitionConfig declares one transition. A nil Guard is always satisfied.
type TransitionConfig struct {
	Source  StateID
	Target  StateID
	Event   EventID
	Kind    TransitionKind
	Guard   Guard
	Actions []Action
}

func (t *TransitionConfig) clone() *TransitionConfig {
	cp := *t
	cp.Actions = append([]Action(nil), t.Actions...)
	return &cp
}

func cloneTransitions(ts []*TransitionConfig) []*TransitionConfig {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*TransitionConfig, len(ts))
	for i, t := range ts {
		out[i] = t.clone()
	}
	return out
}

// Transition creates an external TransitionConfig.
func Transition(source StateID, event EventID, target StateID, opts ...TransitionOption) *TransitionConfig {
	t := &TransitionConfig{Source: source, Target: target, Event: event}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TransitionOption modifies a TransitionConfig under construction.
type TransitionOption func(*TransitionConfig)

// WithGuard sets the guard.
func WithGuard(g Guard) TransitionOption {
	return func(t *TransitionConfig) {
		t.Guard = g
	}
}

// WithActions appends transition actions.
func WithActions(actions ...Action) TransitionOption {
	return func(t *TransitionConfig) {
		t.Actions = append(t.Actions, actions...)
	}
}

// WithKind sets the transition kind.
func WithKind(k TransitionKind) TransitionOption {
	return func(t *TransitionConfig) {
		t.Kind = k
	}
}

func (t *TransitionConfig) String() string {
	return fmt.Sprintf("%s -[%s/%s]-> %s", t.Source, t.Event, t.Kind, t.Target)
}
