package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx/internal/primitives"
)

type traceKey struct{}

// trace collects action names. Charts built by the helpers below look it up
// from the context, so one chart can serve several machines in a test.
type trace struct {
	log []string
}

func (tr *trace) take() string {
	s := strings.Join(tr.log, ".")
	tr.log = nil
	return s
}

func withTrace(tr *trace) context.Context {
	return context.WithValue(context.Background(), traceKey{}, tr)
}

var errBoom = errors.New("boom")

func act(name string) primitives.Action {
	return func(ctx context.Context, _, _ primitives.StateID, _ primitives.Event) error {
		if tr, ok := ctx.Value(traceKey{}).(*trace); ok {
			tr.log = append(tr.log, name)
		}
		return nil
	}
}

func failing(name string) primitives.Action {
	return func(ctx context.Context, _, _ primitives.StateID, _ primitives.Event) error {
		if tr, ok := ctx.Value(traceKey{}).(*trace); ok {
			tr.log = append(tr.log, name)
		}
		return errBoom
	}
}

func traced(sb *primitives.StateBuilder) *primitives.StateBuilder {
	id := string(sb.ID())
	return sb.OnEntry(act("entry" + id)).OnExit(act("exit" + id))
}

func on(sb *primitives.StateBuilder, event primitives.EventID, target primitives.StateID, opts ...primitives.TransitionOption) *primitives.StateBuilder {
	opts = append(opts, primitives.WithActions(act("t"+string(event))))
	return sb.On(event, target, opts...)
}

// historyChart: A(deep){A1, A2{A2a, A2b}}, B(shallow){B1, B2{B2a, B2b}}.
func historyChart(t *testing.T, aKind, bKind primitives.HistoryKind) *primitives.Chart {
	t.Helper()
	mb := primitives.NewMachineBuilder("history", "A")

	a := traced(mb.State("A")).History(aKind)
	on(a, "A2B", "B")
	on(traced(a.State("A1")), "A12A2", "A2")
	a2 := traced(a.State("A2"))
	traced(a2.State("A2a"))
	traced(a2.State("A2b"))
	a2.OnLocal("A22A2b", "A2b", primitives.WithActions(act("tA22A2b")))

	b := traced(mb.State("B")).History(bKind)
	on(b, "B2A", "A")
	on(traced(b.State("B1")), "B12B2", "B2")
	b2 := traced(b.State("B2"))
	traced(b2.State("B2a"))
	traced(b2.State("B2b"))
	b2.OnLocal("B22B2b", "B2b", primitives.WithActions(act("tB22B2b")))

	chart, err := mb.Build()
	require.NoError(t, err)
	return chart
}

// nestedChart: A{A1{A1a{A1a1, A1a2}}, A3, A4(final)}, B{B1, B3}, C.
func nestedChart(t *testing.T) *primitives.Chart {
	t.Helper()
	mb := primitives.NewMachineBuilder("nested", "A")

	a := traced(mb.State("A"))
	a.OnCompletion("C", primitives.WithActions(act("tA2C")))
	a1 := traced(a.State("A1"))
	a1a := traced(a1.State("A1a"))
	a1a1 := traced(a1a.State("A1a1"))
	a1a2 := traced(a1a.State("A1a2"))
	traced(a.State("A3"))
	traced(a.State("A4")).Final()

	on(a1, "A12A1a1", "A1a1")
	on(a1, "A12A3", "A3")
	on(a1, "A12A4", "A4")
	on(a1, "A12B3", "B3")
	a1.OnInternal("tick", primitives.WithActions(act("ttick")))
	a1a.OnLocal("A1a2A1a2", "A1a2", primitives.WithActions(act("tA1a2A1a2")))
	a1a2.OnLocal("A1a22A1a", "A1a", primitives.WithActions(act("tA1a22A1a")))
	on(a1a1, "A1a12A1", "A1")
	on(a1a1, "self", "A1a1")

	b := traced(mb.State("B"))
	traced(b.State("B1"))
	traced(b.State("B3"))
	traced(mb.State("C"))

	chart, err := mb.Build()
	require.NoError(t, err)
	return chart
}
