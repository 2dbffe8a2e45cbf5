package extensibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

func TestExecTimeMonitor(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)
	mon := NewExecTimeMonitor(zap.New(obs), 5*time.Millisecond)

	ev := core.ActionEvent{From: "closed", To: "opened", Event: primitives.NewEvent("open", nil), Phase: core.PhaseTransition}
	for _, d := range []time.Duration{time.Millisecond, 3 * time.Millisecond, 8 * time.Millisecond} {
		ev.Duration = d
		mon.BeforeAction(ev)
		mon.AfterAction(ev)
	}
	ev.Err = errBoom
	ev.Duration = 0
	mon.AfterAction(ev)

	stats := mon.Stats()
	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, "closed-[open]->opened", s.Key)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1, s.Failures)
	assert.Equal(t, 12*time.Millisecond, s.Total)
	assert.Equal(t, 8*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Mean())

	slow := logs.FilterMessage("slow action").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "closed-[open]->opened", slow[0].ContextMap()["transition"])

	mon.Reset()
	assert.Empty(t, mon.Stats())
	assert.Zero(t, ExecStats{}.Mean())
}
