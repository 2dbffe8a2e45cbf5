package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comalice/hsmx/internal/primitives"
)

// ActionEvent describes one action execution. Listeners receive it before
// the action runs and again, with Duration and Err filled in, afterwards.
type ActionEvent struct {
	MachineID string
	Phase     Phase
	State     primitives.StateID
	From      primitives.StateID
	To        primitives.StateID
	Event     primitives.Event
	Kind      primitives.TransitionKind
	// Index is the position of the action within its step.
	Index    int
	Started  time.Time
	Duration time.Duration
	Err      error
}

// ActionListener observes action executions. Listeners run synchronously on
// the calling goroutine and must not call back into the machine.
type ActionListener interface {
	BeforeAction(ActionEvent)
	AfterAction(ActionEvent)
}

// ListenerFuncs adapts plain functions to ActionListener. Nil fields are skipped.
type ListenerFuncs struct {
	Before func(ActionEvent)
	After  func(ActionEvent)
}

func (l ListenerFuncs) BeforeAction(e ActionEvent) {
	if l.Before != nil {
		l.Before(e)
	}
}

func (l ListenerFuncs) AfterAction(e ActionEvent) {
	if l.After != nil {
		l.After(e)
	}
}

// ListenerID identifies a registered listener.
type ListenerID uint64

// ActionExecutionError reports the action that failed and wraps its error.
type ActionExecutionError struct {
	Phase Phase
	State primitives.StateID
	From  primitives.StateID
	To    primitives.StateID
	Event primitives.EventID
	Err   error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("%s action of %q failed (%s -> %s on %q): %v", e.Phase, e.State, e.From, e.To, e.Event, e.Err)
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}

type registeredListener struct {
	id ListenerID
	l  ActionListener
}

// Executor runs execution chains and notifies listeners around each action.
type Executor struct {
	mu        sync.RWMutex
	machineID string
	listeners []registeredListener
	nextID    ListenerID
	now       func() time.Time
}

// NewExecutor creates an Executor reporting machineID in its events.
func NewExecutor(machineID string, now func() time.Time) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{machineID: machineID, now: now}
}

// AddListener registers l and returns a handle for RemoveListener.
func (e *Executor) AddListener(l ActionListener) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.listeners = append(e.listeners, registeredListener{id: e.nextID, l: l})
	return e.nextID
}

// RemoveListener unregisters the listener with the given handle. It reports
// whether such a listener was registered.
func (e *Executor) RemoveListener(id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rl := range e.listeners {
		if rl.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Executor) snapshotListeners() []ActionListener {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]ActionListener, len(e.listeners))
	for i, rl := range e.listeners {
		out[i] = rl.l
	}
	return out
}

// Execute runs every action of steps in order. The first failing action
// stops execution; actions that already ran are not undone.
func (e *Executor) Execute(ctx context.Context, steps []Step) error {
	listeners := e.snapshotListeners()
	for _, step := range steps {
		for i, action := range step.Actions {
			if action == nil {
				continue
			}
			ev := ActionEvent{
				MachineID: e.machineID,
				Phase:     step.Phase,
				State:     step.State,
				From:      step.From,
				To:        step.To,
				Event:     step.Event,
				Kind:      step.Kind,
				Index:     i,
				Started:   e.now(),
			}
			for _, l := range listeners {
				l.BeforeAction(ev)
			}
			err := action(ctx, step.From, step.To, step.Event)
			ev.Duration = e.now().Sub(ev.Started)
			ev.Err = err
			for _, l := range listeners {
				l.AfterAction(ev)
			}
			if err != nil {
				return &ActionExecutionError{
					Phase: step.Phase,
					State: step.State,
					From:  step.From,
					To:    step.To,
					Event: step.Event.Type,
					Err:   err,
				}
			}
		}
	}
	return nil
}
