package production

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVisualizer_ExportDOT_Simple(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(trafficLight(t), "yellow")

	assert.Contains(t, dot, "digraph Statechart {")
	assert.Contains(t, dot, `"green" [label="green"];`)
	assert.Contains(t, dot, `"yellow" [label="yellow" style="rounded,filled" fillcolor=lightgreen];`)
	assert.Contains(t, dot, `"green" -> "yellow" [label="timer"];`)
	assert.NotContains(t, dot, "subgraph")
}

func TestDefaultVisualizer_ExportDOT_Hierarchy(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(player(t), "playing")

	assert.Contains(t, dot, `subgraph "cluster_on" {`)
	assert.Contains(t, dot, `label="on (H:shallow)"; style=filled fillcolor=orange`)
	assert.Contains(t, dot, `"on" [label="on" shape=ellipse];`)
	assert.Contains(t, dot, `"__init_on" -> "stopped";`)
	assert.Contains(t, dot, `"playing" [label="playing" style="rounded,filled" fillcolor=lightgreen];`)
	assert.Contains(t, dot, `"done" [label="done" peripheries=2];`)
}

func TestDefaultVisualizer_ExportDOT_TransitionKinds(t *testing.T) {
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(player(t), "")

	assert.Contains(t, dot, `"off" -> "on" [label="power"];`)
	assert.Contains(t, dot, `"on" -> "stopped" [label="reset" style=dashed];`)
	assert.Contains(t, dot, `"on" -> "on" [label="tick" style=dotted];`)
	assert.Contains(t, dot, `"playing" -> "done" [label="finish [g]"];`)
	assert.Contains(t, dot, `"on" -> "off" [label="$completion"];`)
	assert.NotContains(t, dot, "lightgreen")
	assert.NotContains(t, dot, "orange")
}

func TestDefaultVisualizer_ExportJSON(t *testing.T) {
	v := &DefaultVisualizer{}
	data, err := v.ExportJSON(player(t))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "player"`)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.States, 2)
	assert.Len(t, doc.States[1].States, 3)
	assert.Len(t, doc.Transitions, 8)
}
