package extensibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

var errBoom = errors.New("boom")

func nop(context.Context, primitives.StateID, primitives.StateID, primitives.Event) error { return nil }

func fail(context.Context, primitives.StateID, primitives.StateID, primitives.Event) error {
	return errBoom
}

// doorMachine: closed <-> opened, with "lock" failing on exit of closed.
func doorMachine(t *testing.T, opts ...core.Option) *core.Machine {
	t.Helper()
	mb := primitives.NewMachineBuilder("door", "closed")
	mb.State("closed").OnExit(nop).
		On("open", "opened", primitives.WithActions(nop)).
		On("smash", "opened", primitives.WithActions(fail))
	mb.State("opened").OnEntry(nop).On("close", "closed")

	m := core.NewMachine(mb.MustBuild(), opts...)
	require.NoError(t, m.Start(context.Background(), nil))
	return m
}
