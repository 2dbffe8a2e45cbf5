package production

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx/internal/primitives"
)

// Bindings maps the action and guard names used in a Document to functions.
type Bindings struct {
	Actions map[string]primitives.Action
	Guards  map[string]primitives.Guard
}

// DecodeDocument reads a YAML chart document. Unknown fields are rejected.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode chart document: %w", err)
	}
	return doc, nil
}

// LoadChart reads a YAML chart document and builds the chart with b.
func LoadChart(r io.Reader, b Bindings) (*primitives.Chart, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return nil, err
	}
	return doc.Chart(b)
}

// Chart builds and validates the chart described by d. Names missing from b
// are reported together with the structural issues in one
// *primitives.ConfigurationError. A composite without an explicit initial
// child starts in its first child.
func (d Document) Chart(b Bindings) (*primitives.Chart, error) {
	errs := &primitives.ConfigurationError{}
	cfg := primitives.MachineConfig{
		ID:              d.ID,
		Initial:         d.Initial,
		CompletionEvent: d.CompletionEvent,
		Version:         d.Version,
	}

	var addState func(s StateDoc, parent primitives.StateID)
	addState = func(s StateDoc, parent primitives.StateID) {
		sc := primitives.NewStateConfig(s.ID, parent)
		sc.Initial = s.Initial
		if sc.Initial == "" && len(s.States) > 0 {
			sc.Initial = s.States[0].ID
		}
		sc.History = s.History
		sc.Final = s.Final
		sc.Entry = b.actions(errs, s.Entry, "states", string(s.ID), "entry")
		sc.Exit = b.actions(errs, s.Exit, "states", string(s.ID), "exit")
		cfg.States = append(cfg.States, sc)
		for _, child := range s.States {
			addState(child, s.ID)
		}
	}
	for _, s := range d.States {
		addState(s, "")
	}

	for i, t := range d.Transitions {
		idx := fmt.Sprint(i)
		target := t.To
		if t.Kind == primitives.Internal && target == "" {
			target = t.From
		}
		opts := []primitives.TransitionOption{primitives.WithKind(t.Kind)}
		if t.Guard != "" {
			g, ok := b.Guards[t.Guard]
			if !ok {
				errs.Addf(primitives.CodeUnboundGuard, []string{"transitions", idx, "guard"}, "guard %q is not bound", t.Guard)
			}
			opts = append(opts, primitives.WithGuard(g))
		}
		if acts := b.actions(errs, t.Actions, "transitions", idx, "actions"); len(acts) > 0 {
			opts = append(opts, primitives.WithActions(acts...))
		}
		cfg.Transitions = append(cfg.Transitions, primitives.Transition(t.From, t.On, target, opts...))
	}

	chart, err := primitives.NewChart(cfg)
	if err != nil {
		var cfgErr *primitives.ConfigurationError
		if !errors.As(err, &cfgErr) {
			return nil, err
		}
		errs.Issues = append(errs.Issues, cfgErr.Issues...)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return chart, nil
}

func (b Bindings) actions(errs *primitives.ConfigurationError, names []string, path ...string) []primitives.Action {
	var out []primitives.Action
	for _, name := range names {
		a, ok := b.Actions[name]
		if !ok {
			errs.Addf(primitives.CodeUnboundAction, path, "action %q is not bound", name)
			continue
		}
		out = append(out, a)
	}
	return out
}
