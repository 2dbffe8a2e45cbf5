// Package hsmx is a hierarchical state machine engine.
//
// A Chart is an immutable, validated definition: a forest of states with
// initial children, history kinds and final flags, plus a table of
// transitions. Any number of Machines run a Chart independently:
//
//	b := hsmx.NewMachineBuilder("player", "off")
//	b.State("off").On("power", "on", nil, nil)
//	b.State("on").History(hsmx.HistoryShallow).On("power", "off", nil, nil)
//	b.State("on.stopped").On("play", "on.playing", nil, nil)
//	b.State("on.playing").On("stop", "on.stopped", nil, nil)
//	chart, err := b.Build()
//
//	m := hsmx.NewMachine(chart)
//	_ = m.Start(ctx, nil)
//	_ = m.Fire(ctx, "power", nil)
//
// Machines are not safe for concurrent use; wrap one in a SyncMachine or
// drive it from a single goroutine.
package hsmx

import (
	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

type (
	StateID          = primitives.StateID
	EventID          = primitives.EventID
	Event            = primitives.Event
	Action           = primitives.Action
	Guard            = primitives.Guard
	HistoryKind      = primitives.HistoryKind
	TransitionKind   = primitives.TransitionKind
	StateConfig      = primitives.StateConfig
	TransitionConfig = primitives.TransitionConfig
	TransitionOption = primitives.TransitionOption
	MachineConfig    = primitives.MachineConfig
	Chart            = primitives.Chart
	Visitor          = primitives.Visitor
	StateInfo        = primitives.StateInfo
	TransitionInfo   = primitives.TransitionInfo

	ConfigurationError = primitives.ConfigurationError
	ConfigurationIssue = primitives.ConfigurationIssue

	Machine              = core.Machine
	SyncMachine          = core.SyncMachine
	Option               = core.Option
	Status               = core.Status
	Snapshot             = core.Snapshot
	Phase                = core.Phase
	ActionEvent          = core.ActionEvent
	ActionListener       = core.ActionListener
	ListenerFuncs        = core.ListenerFuncs
	ListenerID           = core.ListenerID
	ActionExecutionError = core.ActionExecutionError
)

const (
	HistoryNone    = primitives.HistoryNone
	HistoryShallow = primitives.HistoryShallow
	HistoryDeep    = primitives.HistoryDeep

	External = primitives.External
	Local    = primitives.Local
	Internal = primitives.Internal

	StatusInitialized = core.StatusInitialized
	StatusActive      = core.StatusActive
	StatusTerminated  = core.StatusTerminated

	PhaseExit       = core.PhaseExit
	PhaseTransition = core.PhaseTransition
	PhaseEntry      = core.PhaseEntry

	DefaultCompletionEvent = primitives.DefaultCompletionEvent
	EventStart             = core.EventStart
	EventTerminate         = core.EventTerminate
	MaxCompletionDepth     = core.MaxCompletionDepth
)

var (
	ErrConfiguration   = primitives.ErrConfiguration
	ErrInvalidSnapshot = core.ErrInvalidSnapshot
	ErrCompletionLoop  = core.ErrCompletionLoop
)

// NewChart validates cfg and returns the chart.
func NewChart(cfg MachineConfig) (*Chart, error) {
	return primitives.NewChart(cfg)
}

// NewMachine creates an INITIALIZED machine running chart.
func NewMachine(chart *Chart, opts ...Option) *Machine {
	return core.NewMachine(chart, opts...)
}

// NewSyncMachine wraps m for use from several goroutines.
func NewSyncMachine(m *Machine) *SyncMachine {
	return core.NewSyncMachine(m)
}

// NewEvent creates an event.
func NewEvent(t EventID, data any) Event {
	return primitives.NewEvent(t, data)
}

// Transition declares an external transition for MachineConfig.
func Transition(source StateID, event EventID, target StateID, opts ...TransitionOption) *TransitionConfig {
	return primitives.Transition(source, event, target, opts...)
}

var (
	WithGuard   = primitives.WithGuard
	WithActions = primitives.WithActions
	WithKind    = primitives.WithKind

	WithLogger    = core.WithLogger
	WithID        = core.WithID
	WithListener  = core.WithListener
	WithAutoStart = core.WithAutoStart
	WithClock     = core.WithClock
)
