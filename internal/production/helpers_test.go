package production

import (
	"context"
	"testing"

	"github.com/comalice/hsmx/internal/primitives"
)

func nop(context.Context, primitives.StateID, primitives.StateID, primitives.Event) error { return nil }

// trafficLight: green -timer-> yellow -timer-> red -timer-> green, with an
// entry action on every light.
func trafficLight(t *testing.T) *primitives.Chart {
	t.Helper()
	mb := primitives.NewMachineBuilder("traffic", "green")
	mb.State("green").OnEntry(nop).On("timer", "yellow", primitives.WithActions(nop))
	mb.State("yellow").OnEntry(nop).On("timer", "red")
	mb.State("red").OnEntry(nop).On("timer", "green")
	return mb.MustBuild()
}

// player: off | on{stopped, playing, done (final)} with shallow history on on.
func player(t *testing.T) *primitives.Chart {
	t.Helper()
	mb := primitives.NewMachineBuilder("player", "off")
	mb.State("off").On("power", "on")
	on := mb.State("on").History(primitives.HistoryShallow).
		On("power", "off").
		OnLocal("reset", "stopped").
		OnInternal("tick").
		OnCompletion("off")
	on.State("stopped").On("play", "playing")
	on.State("playing").
		On("stop", "stopped").
		On("finish", "done", primitives.WithGuard(func(context.Context, primitives.StateID, primitives.StateID, primitives.Event) (bool, error) {
			return true, nil
		}))
	on.State("done").Final()
	return mb.MustBuild()
}
