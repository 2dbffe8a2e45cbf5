package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx/internal/primitives"
)

// DefaultVisualizer exports charts for humans and tools.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for chart. The current leaf is
// filled lightgreen and its ancestors orange; an empty current highlights
// nothing.
func (v *DefaultVisualizer) ExportDOT(chart *primitives.Chart, current primitives.StateID) string {
	d := &dotWriter{active: make(map[primitives.StateID]bool), current: current}
	if current != "" {
		if path, err := chart.Graph().AncestorsOf(current); err == nil {
			for _, id := range path {
				d.active[id] = true
			}
		}
	}

	d.buf.WriteString(`digraph Statechart {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	chart.Accept(d)
	d.buf.WriteString("}\n")
	return d.buf.String()
}

// ExportJSON serializes the chart structure as a Document.
func (v *DefaultVisualizer) ExportJSON(chart *primitives.Chart) ([]byte, error) {
	return json.MarshalIndent(ExportDocument(chart), "", "  ")
}

// ExportYAML serializes the chart structure as a Document.
func (v *DefaultVisualizer) ExportYAML(chart *primitives.Chart) ([]byte, error) {
	return yaml.Marshal(ExportDocument(chart))
}

// dotWriter renders composites as clusters holding an ellipse node for the
// composite itself, so that transitions can still point at it.
type dotWriter struct {
	buf     bytes.Buffer
	active  map[primitives.StateID]bool
	current primitives.StateID
}

func (d *dotWriter) indent(depth int) string {
	return strings.Repeat("  ", depth+1)
}

func (d *dotWriter) EnterState(s primitives.StateInfo) {
	in := d.indent(s.Depth)
	if len(s.Children) == 0 {
		attrs := ""
		if s.ID == d.current {
			attrs += " style=\"rounded,filled\" fillcolor=lightgreen"
		}
		if s.Final {
			attrs += " peripheries=2"
		}
		fmt.Fprintf(&d.buf, "%s%q [label=%q%s];\n", in, s.ID, s.ID, attrs)
		return
	}

	fmt.Fprintf(&d.buf, "%ssubgraph %q {\n", in, "cluster_"+string(s.ID))
	label := string(s.ID)
	if s.History != primitives.HistoryNone {
		label = fmt.Sprintf("%s (H:%s)", s.ID, s.History)
	}
	style := ""
	if d.active[s.ID] {
		style = " style=filled fillcolor=orange"
	}
	fmt.Fprintf(&d.buf, "%s  label=%q;%s\n", in, label, style)
	fmt.Fprintf(&d.buf, "%s  %q [label=%q shape=ellipse];\n", in, s.ID, s.ID)
	fmt.Fprintf(&d.buf, "%s  %q [label=\"\" shape=point];\n", in, initialNode(s.ID))
	fmt.Fprintf(&d.buf, "%s  %q -> %q;\n", in, initialNode(s.ID), s.Initial)
}

func (d *dotWriter) LeaveState(s primitives.StateInfo) {
	if len(s.Children) == 0 {
		return
	}
	fmt.Fprintf(&d.buf, "%s}\n", d.indent(s.Depth))
}

func (d *dotWriter) VisitTransition(t primitives.TransitionInfo) {
	label := string(t.Event)
	if t.Guarded {
		label += " [g]"
	}
	target := t.Target
	style := ""
	switch t.Kind {
	case primitives.Local:
		style = " style=dashed"
	case primitives.Internal:
		target = t.Source
		style = " style=dotted"
	}
	fmt.Fprintf(&d.buf, "  %q -> %q [label=%q%s];\n", t.Source, target, label, style)
}

func initialNode(id primitives.StateID) string {
	return "__init_" + string(id)
}
