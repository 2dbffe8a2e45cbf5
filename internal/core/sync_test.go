package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx/internal/primitives"
)

func TestSyncMachine_SerializesCalls(t *testing.T) {
	mb := primitives.NewMachineBuilder("counter", "S")
	count := 0
	mb.State("S").OnInternal("inc", primitives.WithActions(func(context.Context, primitives.StateID, primitives.StateID, primitives.Event) error {
		count++
		return nil
	}))
	sm := NewSyncMachine(NewMachine(mb.MustBuild()))
	require.NoError(t, sm.Start(context.Background(), nil))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sm.Fire(context.Background(), "inc", nil))
			_, err := sm.Test(context.Background(), "inc", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sm.Do(func(m *Machine) {
		assert.Equal(t, primitives.StateID("S"), m.LastState())
	})
	assert.Equal(t, n, count)
	assert.Equal(t, primitives.StateID("S"), sm.CurrentState())
	assert.Equal(t, StatusActive, sm.Status())

	snap := sm.DumpSavedData()
	require.NoError(t, sm.Terminate(context.Background(), nil))
	require.NoError(t, sm.LoadSavedData(snap))
	assert.Equal(t, StatusActive, sm.Status())
}
