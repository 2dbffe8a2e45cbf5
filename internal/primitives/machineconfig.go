package primitives

import "errors"

// MachineConfig is the raw, unvalidated definition of a chart.
type MachineConfig struct {
	ID              string
	Initial         StateID
	CompletionEvent EventID
	Version         string
	States          []*StateConfig
	Transitions     []*TransitionConfig
}

// Chart is a validated, immutable state machine definition. It is safe to
// share between any number of machine instances and goroutines.
type Chart struct {
	id         string
	initial    StateID
	completion EventID
	version    string
	graph      *StateGraph
	table      *TransitionTable
}

// NewChart validates cfg and builds the chart. Every problem found is
// reported in a single *ConfigurationError.
func NewChart(cfg MachineConfig) (*Chart, error) {
	errs := &ConfigurationError{}

	graph, err := NewStateGraph(cfg.States)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Initial == "":
		errs.Add(CodeUnknownInitialState, "initial state is required", "initial")
	case !graph.Contains(cfg.Initial):
		errs.Addf(CodeUnknownInitialState, []string{"initial"}, "initial state %q does not exist", cfg.Initial)
	}

	table, err := NewTransitionTable(graph, cfg.Transitions)
	if err != nil {
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		errs.Issues = append(errs.Issues, cfgErr.Issues...)
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	c := &Chart{
		id:         cfg.ID,
		initial:    cfg.Initial,
		completion: cfg.CompletionEvent,
		graph:      graph,
		table:      table,
	}
	if c.completion == "" {
		c.completion = DefaultCompletionEvent
	}
	c.version = cfg.Version
	if c.version == "" {
		c.version = ComputeVersion(c)
	}
	return c, nil
}

// ID returns the chart identifier.
func (c *Chart) ID() string { return c.id }

// Initial returns the configured initial state.
func (c *Chart) Initial() StateID { return c.initial }

// CompletionEvent returns the event fired on the parent of a reached final state.
func (c *Chart) CompletionEvent() EventID { return c.completion }

// Version returns the user supplied or structural version of the chart.
func (c *Chart) Version() string { return c.version }

// Graph returns the state hierarchy.
func (c *Chart) Graph() *StateGraph { return c.graph }

// Table returns the transition table.
func (c *Chart) Table() *TransitionTable { return c.table }
