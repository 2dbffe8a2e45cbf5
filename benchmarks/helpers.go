// Package benchmarks provides chart generators and benchmarks for the
// engine.
package benchmarks

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx/internal/primitives"
	"github.com/comalice/hsmx/internal/production"
)

func nop(context.Context, primitives.StateID, primitives.StateID, primitives.Event) error { return nil }

// GenFlatChart creates n root states cycling via "tick".
func GenFlatChart(n int) *primitives.Chart {
	if n < 1 {
		n = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("flat_%d", n), "s0")
	for i := 0; i < n; i++ {
		target := primitives.StateID(fmt.Sprintf("s%d", (i+1)%n))
		mb.State(primitives.StateID(fmt.Sprintf("s%d", i))).OnEntry(nop).On("tick", target)
	}
	return mb.MustBuild()
}

// GenDeepChart creates depth nested composites c0 > c1 > ... with two
// leaves at the bottom. "tick" flips between the leaves; "reset" leaves the
// whole hierarchy and re-enters it from c0, restoring the last leaf through
// deep history on c0.
func GenDeepChart(depth int) *primitives.Chart {
	if depth < 1 {
		depth = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("deep_%d", depth), "c0")
	sb := mb.State("c0").History(primitives.HistoryDeep).OnEntry(nop).OnExit(nop)
	for i := 1; i < depth; i++ {
		sb = sb.State(primitives.StateID(fmt.Sprintf("c%d", i))).OnEntry(nop).OnExit(nop)
	}
	bottom := sb.ID()
	leaf1 := bottom + ".leaf1"
	leaf2 := bottom + ".leaf2"
	sb.State(leaf1).On("tick", leaf2).On("reset", "c0")
	sb.State(leaf2).On("tick", leaf1).On("reset", "c0")
	return mb.MustBuild()
}

// GenWideTransitions creates one state declaring n guarded "tick"
// transitions where only the last guard is satisfied.
func GenWideTransitions(n int) *primitives.Chart {
	if n < 1 {
		n = 1
	}
	mb := primitives.NewMachineBuilder(fmt.Sprintf("wide_%d", n), "main")
	main := mb.State("main")
	for i := 0; i < n; i++ {
		last := i == n-1
		guard := func(context.Context, primitives.StateID, primitives.StateID, primitives.Event) (bool, error) {
			return last, nil
		}
		main.On("tick", "main", primitives.WithGuard(guard))
	}
	return mb.MustBuild()
}

// GenChartYAML renders chart as a YAML document for loader benchmarks.
func GenChartYAML(chart *primitives.Chart) []byte {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(production.ExportDocument(chart)); err != nil {
		panic(err)
	}
	_ = enc.Close()
	return buf.Bytes()
}
