package core

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Status is the lifecycle status of a machine instance.
type Status string

const (
	StatusInitialized Status = "INITIALIZED"
	StatusActive      Status = "ACTIVE"
	StatusTerminated  Status = "TERMINATED"
)

const (
	lifecycleEventStart     = "start"
	lifecycleEventTerminate = "terminate"
	lifecycleEventLoad      = "load"
)

// lifecycle tracks INITIALIZED -> ACTIVE -> TERMINATED. Loading a snapshot
// moves any status to ACTIVE.
type lifecycle struct {
	fsm *fsm.FSM
}

func newLifecycle(machineID string, logger *zap.Logger) *lifecycle {
	events := []fsm.EventDesc{
		{Name: lifecycleEventStart, Src: []string{string(StatusInitialized)}, Dst: string(StatusActive)},
		{Name: lifecycleEventTerminate, Src: []string{string(StatusInitialized), string(StatusActive)}, Dst: string(StatusTerminated)},
		{Name: lifecycleEventLoad, Src: []string{string(StatusInitialized), string(StatusTerminated)}, Dst: string(StatusActive)},
	}
	return &lifecycle{
		fsm: fsm.NewFSM(
			string(StatusInitialized),
			fsm.Events(events),
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logger.Debug("status changed",
						zap.String("machine", machineID),
						zap.String("from", e.Src),
						zap.String("to", e.Dst))
				},
			},
		),
	}
}

func (l *lifecycle) status() Status {
	return Status(l.fsm.Current())
}

func (l *lifecycle) is(s Status) bool {
	return l.fsm.Is(string(s))
}

// Status changes ignore the caller's context.
func (l *lifecycle) start() error {
	return l.fsm.Event(context.Background(), lifecycleEventStart)
}

func (l *lifecycle) terminate() error {
	return l.fsm.Event(context.Background(), lifecycleEventTerminate)
}

func (l *lifecycle) load() error {
	if l.is(StatusActive) {
		return nil
	}
	return l.fsm.Event(context.Background(), lifecycleEventLoad)
}
