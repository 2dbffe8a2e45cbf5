package production

import (
	"github.com/comalice/hsmx/internal/primitives"
)

// Document is the data form of a chart. States nest the way the hierarchy
// does; actions and guards are referenced by name and resolved through
// Bindings when the document is loaded.
type Document struct {
	ID              string             `json:"id" yaml:"id"`
	Initial         primitives.StateID `json:"initial" yaml:"initial"`
	CompletionEvent primitives.EventID `json:"completionEvent,omitempty" yaml:"completionEvent,omitempty"`
	Version         string             `json:"version,omitempty" yaml:"version,omitempty"`
	States          []StateDoc         `json:"states" yaml:"states"`
	Transitions     []TransitionDoc    `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// StateDoc describes one state and its children.
type StateDoc struct {
	ID      primitives.StateID     `json:"id" yaml:"id"`
	Initial primitives.StateID     `json:"initial,omitempty" yaml:"initial,omitempty"`
	History primitives.HistoryKind `json:"history,omitempty" yaml:"history,omitempty"`
	Final   bool                   `json:"final,omitempty" yaml:"final,omitempty"`
	Entry   []string               `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit    []string               `json:"exit,omitempty" yaml:"exit,omitempty"`
	States  []StateDoc             `json:"states,omitempty" yaml:"states,omitempty"`
}

// TransitionDoc describes one transition. Internal transitions omit To.
type TransitionDoc struct {
	From    primitives.StateID        `json:"from" yaml:"from"`
	To      primitives.StateID        `json:"to,omitempty" yaml:"to,omitempty"`
	On      primitives.EventID        `json:"on" yaml:"on"`
	Kind    primitives.TransitionKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Guard   string                    `json:"guard,omitempty" yaml:"guard,omitempty"`
	Actions []string                  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// ExportDocument returns the structure of chart as a Document. A chart only
// holds action and guard functions, so the document carries no names for
// them.
func ExportDocument(chart *primitives.Chart) Document {
	b := &documentBuilder{}
	chart.Accept(b)
	return Document{
		ID:              chart.ID(),
		Initial:         chart.Initial(),
		CompletionEvent: chart.CompletionEvent(),
		Version:         chart.Version(),
		States:          b.roots,
		Transitions:     b.transitions,
	}
}

type documentBuilder struct {
	stack       []StateDoc
	roots       []StateDoc
	transitions []TransitionDoc
}

func (b *documentBuilder) EnterState(s primitives.StateInfo) {
	b.stack = append(b.stack, StateDoc{
		ID:      s.ID,
		Initial: s.Initial,
		History: s.History,
		Final:   s.Final,
	})
}

func (b *documentBuilder) LeaveState(primitives.StateInfo) {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if len(b.stack) == 0 {
		b.roots = append(b.roots, top)
		return
	}
	parent := &b.stack[len(b.stack)-1]
	parent.States = append(parent.States, top)
}

func (b *documentBuilder) VisitTransition(t primitives.TransitionInfo) {
	doc := TransitionDoc{From: t.Source, On: t.Event, Kind: t.Kind}
	if t.Kind != primitives.Internal {
		doc.To = t.Target
	}
	b.transitions = append(b.transitions, doc)
}
