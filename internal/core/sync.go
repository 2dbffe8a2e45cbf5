package core

import (
	"context"
	"sync"

	"github.com/comalice/hsmx/internal/primitives"
)

// SyncMachine serializes every call to a Machine behind one mutex so it can be
// shared between goroutines. Listeners and actions run with the lock held
// and must not call back into the SyncMachine.
type SyncMachine struct {
	mu sync.Mutex
	m  *Machine
}

// NewSyncMachine wraps m.
func NewSyncMachine(m *Machine) *SyncMachine {
	return &SyncMachine{m: m}
}

func (s *SyncMachine) Start(ctx context.Context, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Start(ctx, data)
}

func (s *SyncMachine) Fire(ctx context.Context, event primitives.EventID, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Fire(ctx, event, data)
}

func (s *SyncMachine) Test(ctx context.Context, event primitives.EventID, data any) (primitives.StateID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Test(ctx, event, data)
}

func (s *SyncMachine) Terminate(ctx context.Context, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Terminate(ctx, data)
}

func (s *SyncMachine) CurrentState() primitives.StateID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.CurrentState()
}

func (s *SyncMachine) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Status()
}

func (s *SyncMachine) DumpSavedData() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.DumpSavedData()
}

func (s *SyncMachine) LoadSavedData(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.LoadSavedData(snap)
}

// Do runs fn with exclusive access to the underlying machine.
func (s *SyncMachine) Do(fn func(m *Machine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.m)
}
