package primitives

import (
	"fmt"
	"strings"
)

// StateID identifies a state. IDs are unique across the whole chart.
type StateID string

// HistoryKind selects how a composite state restores its substates on re-entry.
type HistoryKind int

const (
	// HistoryNone always enters the static initial child.
	HistoryNone HistoryKind = iota
	// HistoryShallow restores the last active direct child.
	HistoryShallow
	// HistoryDeep restores the full last active leaf path.
	HistoryDeep
)

func (k HistoryKind) String() string {
	switch k {
	case HistoryNone:
		return "none"
	case HistoryShallow:
		return "shallow"
	case HistoryDeep:
		return "deep"
	default:
		return fmt.Sprintf("HistoryKind(%d)", int(k))
	}
}

// ParseHistoryKind parses the textual form produced by String. The empty
// string maps to HistoryNone.
func ParseHistoryKind(s string) (HistoryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HistoryNone, nil
	case "shallow":
		return HistoryShallow, nil
	case "deep":
		return HistoryDeep, nil
	default:
		return HistoryNone, fmt.Errorf("unknown history kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k HistoryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HistoryKind) UnmarshalText(text []byte) error {
	v, err := ParseHistoryKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// StateConfig describes one state of the hierarchy.
//
// A state with children is composite and must name one of them as Initial.
// Entry and Exit actions run in declaration order.
type StateConfig struct {
	ID       StateID
	Parent   StateID
	Children []StateID
	Initial  StateID
	History  HistoryKind
	Final    bool
	Entry    []Action
	Exit     []Action
}

// NewStateConfig creates a StateConfig below parent. An empty parent makes
// the state a root.
func NewStateConfig(id, parent StateID) *StateConfig {
	return &StateConfig{ID: id, Parent: parent}
}

func (s *StateConfig) clone() *StateConfig {
	cp := *s
	cp.Children = append([]StateID(nil), s.Children...)
	cp.Entry = append([]Action(nil), s.Entry...)
	cp.Exit = append([]Action(nil), s.Exit...)
	return &cp
}

// IsComposite reports whether the state has children.
func (s *StateConfig) IsComposite() bool {
	return len(s.Children) > 0
}

// IsLeaf reports whether the state has no children.
func (s *StateConfig) IsLeaf() bool {
	return len(s.Children) == 0
}

// HasChild reports whether id is a direct child of s.
func (s *StateConfig) HasChild(id StateID) bool {
	for _, c := range s.Children {
		if c == id {
			return true
		}
	}
	return false
}

// OnEntry appends entry actions.
func (s *StateConfig) OnEntry(actions ...Action) *StateConfig {
	s.Entry = append(s.Entry, actions...)
	return s
}

// OnExit appends exit actions.
func (s *StateConfig) OnExit(actions ...Action) *StateConfig {
	s.Exit = append(s.Exit, actions...)
	return s
}
