package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/internal/extensibility"
	"github.com/comalice/hsmx/internal/production"
)

// player holds the host side of the media player: the volume it drives and
// the actions and guards bound into the chart.
type player struct {
	logger *zap.Logger
	volume int
}

func (p *player) bindings() production.Bindings {
	return production.Bindings{
		Actions: map[string]hsmx.Action{
			"announce":  p.announce,
			"setVolume": p.setVolume,
		},
		Guards: map[string]hsmx.Guard{
			"volumeInRange": extensibility.DataMatches(func(v int) bool { return v >= 0 && v <= 10 }),
		},
	}
}

func (p *player) announce(_ context.Context, from, to hsmx.StateID, evt hsmx.Event) error {
	p.logger.Info("player", zap.String("event", string(evt.Type)), zap.String("from", string(from)), zap.String("to", string(to)))
	return nil
}

// setVolume runs behind volumeInRange, so the data is an int.
func (p *player) setVolume(_ context.Context, _, _ hsmx.StateID, evt hsmx.Event) error {
	p.volume = evt.Data.(int)
	p.logger.Info("volume changed", zap.Int("volume", p.volume))
	return nil
}

// builtinChart mirrors player.yaml.
func (p *player) builtinChart() (*hsmx.Chart, error) {
	b := p.bindings()
	announce := b.Actions["announce"]

	mb := hsmx.NewMachineBuilder("media-player", "off")
	mb.State("off").On("power", "on", nil, announce)
	mb.State("on").
		History(hsmx.HistoryShallow).
		On("power", "off", nil, announce).
		OnInternal("volume", b.Guards["volumeInRange"], b.Actions["setVolume"]).
		OnCompletion("off", nil, announce)
	mb.State("on.stopped").On("play", "on.playing", nil, announce)
	mb.State("on.playing").
		On("pause", "on.paused", nil, nil).
		On("stop", "on.stopped", nil, nil).
		On("end", "on.ended", nil, nil)
	mb.State("on.playing.normal").On("ff", "on.playing.fast", nil, nil)
	mb.State("on.playing.fast").On("ff", "on.playing.normal", nil, nil)
	mb.State("on.paused").
		On("play", "on.playing", nil, announce).
		On("stop", "on.stopped", nil, nil)
	mb.State("on.ended").Final()
	return mb.Build()
}

func (p *player) chart(path string) (*hsmx.Chart, error) {
	if path == "" {
		return p.builtinChart()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart: %w", err)
	}
	defer f.Close()
	return production.LoadChart(f, p.bindings())
}
