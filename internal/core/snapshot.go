package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/comalice/hsmx/internal/primitives"
)

// ErrInvalidSnapshot is returned when a snapshot does not fit the chart of
// the machine it is loaded into.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the serializable runtime state of a machine: its state
// pointers and every history record.
type Snapshot struct {
	MachineID string                                      `json:"machineID" yaml:"machineID"`
	ChartID   string                                      `json:"chartID" yaml:"chartID"`
	Version   string                                      `json:"version,omitempty" yaml:"version,omitempty"`
	Current   primitives.StateID                          `json:"current" yaml:"current"`
	Initial   primitives.StateID                          `json:"initial" yaml:"initial"`
	Last      primitives.StateID                          `json:"last,omitempty" yaml:"last,omitempty"`
	History   map[primitives.StateID][]primitives.StateID `json:"history,omitempty" yaml:"history,omitempty"`
	Timestamp time.Time                                   `json:"timestamp" yaml:"timestamp"`
}

// LastActiveChildOf returns the direct child recorded for composite.
func (s Snapshot) LastActiveChildOf(composite primitives.StateID) (primitives.StateID, bool) {
	rec, ok := s.History[composite]
	if !ok || len(rec) == 0 {
		return "", false
	}
	return rec[0], true
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() (Snapshot, error) {
	out := s
	out.History = nil
	if s.History != nil {
		if err := deepcopy.Copy(&out.History, &s.History); err != nil {
			return Snapshot{}, fmt.Errorf("clone snapshot: %w", err)
		}
	}
	return out, nil
}

// validateFor checks that every id in s exists in chart and that the
// recorded history paths follow the hierarchy.
func (s Snapshot) validateFor(chart *primitives.Chart) error {
	g := chart.Graph()
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}

	if s.ChartID != "" && s.ChartID != chart.ID() {
		return invalid("chart %q does not match %q", s.ChartID, chart.ID())
	}
	if s.Version != "" && s.Version != chart.Version() {
		return invalid("chart version %q does not match %q", s.Version, chart.Version())
	}
	if s.Initial != "" && s.Initial != chart.Initial() {
		return invalid("initial state %q does not match %q", s.Initial, chart.Initial())
	}
	if !g.IsLeaf(s.Current) {
		return invalid("current state %q is not a leaf of the chart", s.Current)
	}
	if s.Last != "" && !g.Contains(s.Last) {
		return invalid("last state %q is not part of the chart", s.Last)
	}
	for composite, path := range s.History {
		parent := composite
		for _, id := range path {
			st, ok := g.State(id)
			if !ok || st.Parent != parent {
				return invalid("history of %q: %q is not a child of %q", composite, id, parent)
			}
			parent = id
		}
	}
	return nil
}
