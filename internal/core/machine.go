// Package core is the runtime tier of the engine: history tracking,
// transition resolution, action execution and the Machine instance that ties
// them to an immutable chart.
//
// A Machine is not safe for concurrent use. Confine it to one goroutine or
// wrap it in a SyncMachine.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/comalice/hsmx/internal/primitives"
)

// Events used for the actions run by Start and Terminate.
const (
	EventStart     primitives.EventID = "$start"
	EventTerminate primitives.EventID = "$terminate"
)

// Machine is one running instance of a chart.
type Machine struct {
	id       string
	chart    *primitives.Chart
	resolver *Resolver
	executor *Executor
	history  *HistoryStore
	life     *lifecycle
	logger   *zap.Logger
	now      func() time.Time

	current primitives.StateID
	last    primitives.StateID

	autoStart        bool
	initialListeners []ActionListener
}

// NewMachine creates an INITIALIZED machine for chart.
func NewMachine(chart *primitives.Chart, opts ...Option) *Machine {
	m := &Machine{
		id:     uuid.NewString(),
		chart:  chart,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.Named("hsmx").With(zap.String("machine", m.id), zap.String("chart", chart.ID()))
	m.resolver = NewResolver(chart, m.logger)
	m.executor = NewExecutor(m.id, m.now)
	m.history = NewHistoryStore(chart.Graph())
	m.life = newLifecycle(m.id, m.logger)
	for _, l := range m.initialListeners {
		m.executor.AddListener(l)
	}
	m.initialListeners = nil
	return m
}

// ID returns the machine id.
func (m *Machine) ID() string { return m.id }

// Chart returns the chart the machine runs.
func (m *Machine) Chart() *primitives.Chart { return m.chart }

// CurrentState returns the active leaf. It is empty before Start.
func (m *Machine) CurrentState() primitives.StateID { return m.current }

// LastState returns the leaf that was active before the last handled event.
func (m *Machine) LastState() primitives.StateID { return m.last }

// InitialState returns the chart's initial state.
func (m *Machine) InitialState() primitives.StateID { return m.chart.Initial() }

// Status returns the lifecycle status.
func (m *Machine) Status() Status { return m.life.status() }

// LastActiveChildOf returns the direct child of composite that was active
// when it was last exited.
func (m *Machine) LastActiveChildOf(composite primitives.StateID) (primitives.StateID, bool) {
	return m.history.LastActiveChild(composite)
}

// AddListener registers an action listener.
func (m *Machine) AddListener(l ActionListener) ListenerID {
	return m.executor.AddListener(l)
}

// RemoveListener unregisters an action listener.
func (m *Machine) RemoveListener(id ListenerID) bool {
	return m.executor.RemoveListener(id)
}

// Start enters the chart's initial state and descends to a leaf, running
// entry actions outermost first. It is a no-op unless the machine is
// INITIALIZED. If an entry action fails the machine stays INITIALIZED.
func (m *Machine) Start(ctx context.Context, data any) error {
	if !m.life.is(StatusInitialized) {
		return nil
	}
	evt := primitives.NewEvent(EventStart, data)
	plan, err := m.resolver.StartPlan(evt, m.history)
	if err != nil {
		return err
	}
	if err := m.executor.Execute(ctx, plan.Steps); err != nil {
		m.logger.Error("start failed", zap.Error(err))
		return err
	}
	m.current = plan.Target
	if err := m.life.start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	m.logger.Debug("started", zap.String("state", string(m.current)))
	return nil
}

// Fire delivers an event. Events are ignored unless the machine is ACTIVE,
// and an event no scope level handles is ignored as well. On action failure
// the current state is left unchanged and the error is returned. History is
// only updated once the chain has been resolved.
func (m *Machine) Fire(ctx context.Context, event primitives.EventID, data any) error {
	if m.autoStart && m.life.is(StatusInitialized) {
		if err := m.Start(ctx, data); err != nil {
			return err
		}
	}
	if !m.life.is(StatusActive) {
		m.logger.Debug("event ignored", zap.String("event", string(event)), zap.String("status", string(m.Status())))
		return nil
	}

	evt := primitives.NewEvent(event, data)
	hist := m.history.Clone()
	plan, err := m.resolver.Resolve(ctx, m.current, evt, hist)
	if err != nil {
		return err
	}
	m.history = hist
	if !plan.Handled {
		m.logger.Debug("event unhandled", zap.String("event", string(event)), zap.String("state", string(m.current)))
		return nil
	}
	if err := m.executor.Execute(ctx, plan.Steps); err != nil {
		m.logger.Error("transition failed",
			zap.String("event", string(event)),
			zap.String("from", string(m.current)),
			zap.Error(err))
		return err
	}

	m.last, m.current = m.current, plan.Target
	m.logger.Debug("transition",
		zap.String("event", string(event)),
		zap.String("from", string(m.last)),
		zap.String("to", string(m.current)),
		zap.Int("steps", len(plan.Steps)))
	return nil
}

// Test returns the leaf that Fire would settle in without running any
// action or changing the machine or its history. Guards are evaluated. It
// may be called in any status; an INITIALIZED machine is simulated from its
// initial leaf. An unhandled event returns the unchanged leaf.
func (m *Machine) Test(ctx context.Context, event primitives.EventID, data any) (primitives.StateID, error) {
	hist := m.history.Clone()
	evt := primitives.NewEvent(event, data)

	leaf := m.current
	if m.life.is(StatusInitialized) {
		plan, err := m.resolver.StartPlan(primitives.NewEvent(EventStart, data), hist)
		if err != nil {
			return "", err
		}
		leaf = plan.Target
	}
	if leaf == "" {
		return "", nil
	}

	plan, err := m.resolver.Resolve(ctx, leaf, evt, hist)
	if err != nil {
		return "", err
	}
	return plan.Target, nil
}

// Terminate exits from the current leaf up to its root, running exit actions
// innermost first, and marks the machine TERMINATED. An INITIALIZED machine
// terminates without running actions; a TERMINATED one is left alone. If an
// exit action fails the machine stays ACTIVE.
func (m *Machine) Terminate(ctx context.Context, data any) error {
	switch m.Status() {
	case StatusTerminated:
		return nil
	case StatusInitialized:
		return m.life.terminate()
	}

	evt := primitives.NewEvent(EventTerminate, data)
	plan, err := m.resolver.TerminatePlan(m.current, evt, m.history)
	if err != nil {
		return err
	}
	if err := m.executor.Execute(ctx, plan.Steps); err != nil {
		m.logger.Error("terminate failed", zap.Error(err))
		return err
	}
	if err := m.life.terminate(); err != nil {
		return fmt.Errorf("terminate: %w", err)
	}
	m.logger.Debug("terminated", zap.String("state", string(m.current)))
	return nil
}

// DumpSavedData captures the state pointers and every history record.
func (m *Machine) DumpSavedData() Snapshot {
	return Snapshot{
		MachineID: m.id,
		ChartID:   m.chart.ID(),
		Version:   m.chart.Version(),
		Current:   m.current,
		Initial:   m.chart.Initial(),
		Last:      m.last,
		History:   m.history.Export(),
		Timestamp: m.now().UTC(),
	}
}

// LoadSavedData installs s and marks the machine ACTIVE without running any
// action. The snapshot must fit the machine's chart.
func (m *Machine) LoadSavedData(s Snapshot) error {
	if err := s.validateFor(m.chart); err != nil {
		return err
	}
	m.history.Replace(s.History)
	m.current = s.Current
	m.last = s.Last
	if err := m.life.load(); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	m.logger.Debug("snapshot loaded", zap.String("state", string(m.current)), zap.String("from", s.MachineID))
	return nil
}
