package primitives

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T) *StateGraph {
	t.Helper()
	g, err := NewStateGraph([]*StateConfig{
		{ID: "A", Initial: "A1"},
		{ID: "A1", Parent: "A", Initial: "A1a"},
		{ID: "A1a", Parent: "A1", Initial: "A1a1"},
		{ID: "A1a1", Parent: "A1a"},
		{ID: "A2", Parent: "A"},
		{ID: "B", Initial: "B1"},
		{ID: "B1", Parent: "B"},
	})
	require.NoError(t, err)
	return g
}

func TestStateGraph_Children(t *testing.T) {
	g := tree(t)
	assert.Equal(t, []StateID{"A", "B"}, g.Roots())
	assert.Equal(t, []StateID{"A1", "A2"}, g.Children("A"))
	assert.True(t, g.IsLeaf("A2"))
	assert.False(t, g.IsLeaf("A1"))
	assert.Equal(t, 7, g.Len())
}

func TestStateGraph_AncestorsOf(t *testing.T) {
	g := tree(t)

	path, err := g.AncestorsOf("A1a1")
	require.NoError(t, err)
	assert.Equal(t, []StateID{"A", "A1", "A1a", "A1a1"}, path)

	path, err = g.AncestorsOf("B")
	require.NoError(t, err)
	assert.Equal(t, []StateID{"B"}, path)

	_, err = g.AncestorsOf("nope")
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestStateGraph_IsDescendant(t *testing.T) {
	g := tree(t)
	tests := []struct {
		a, b StateID
		want bool
	}{
		{"A1a1", "A", true},
		{"A1a1", "A1", true},
		{"A1", "A1", false},
		{"A", "A1", false},
		{"A2", "A1", false},
		{"B1", "A", false},
		{"nope", "A", false},
		{"A1", "nope", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_in_%s", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, g.IsDescendant(tt.a, tt.b))
		})
	}
}

func TestStateGraph_LowestCommonAncestor(t *testing.T) {
	g := tree(t)
	tests := []struct {
		a, b StateID
		want StateID
	}{
		{"A1a1", "A2", "A"},
		{"A1a1", "A1", "A1"},
		{"A1", "A1a1", "A1"},
		{"A2", "A2", "A2"},
		{"A1a", "B1", ""},
	}
	for _, tt := range tests {
		got, err := g.LowestCommonAncestor(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "lca(%s, %s)", tt.a, tt.b)
	}

	_, err := g.LowestCommonAncestor("A1", "ghost")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, cfgErr.HasCode(CodeUnknownState))
}

// randomForest builds a forest of n states where each state picks an earlier
// state (or none) as parent.
func randomForest(r *rand.Rand, n int) ([]*StateConfig, map[StateID]StateID) {
	parents := make(map[StateID]StateID, n)
	var states []*StateConfig
	initial := make(map[StateID]StateID)
	for i := 0; i < n; i++ {
		id := StateID(fmt.Sprintf("s%d", i))
		var parent StateID
		if i > 0 && r.Intn(5) != 0 {
			parent = StateID(fmt.Sprintf("s%d", r.Intn(i)))
		}
		parents[id] = parent
		if parent != "" {
			if _, ok := initial[parent]; !ok {
				initial[parent] = id
			}
		}
		states = append(states, &StateConfig{ID: id, Parent: parent})
	}
	for _, s := range states {
		s.Initial = initial[s.ID]
	}
	return states, parents
}

func naiveAncestors(parents map[StateID]StateID, id StateID) map[StateID]bool {
	out := map[StateID]bool{id: true}
	for p := parents[id]; p != ""; p = parents[p] {
		out[p] = true
	}
	return out
}

func TestStateGraph_LowestCommonAncestor_RandomForests(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		states, parents := randomForest(r, 2+r.Intn(30))
		g, err := NewStateGraph(states)
		require.NoError(t, err)

		for i := 0; i < 40; i++ {
			a := states[r.Intn(len(states))].ID
			b := states[r.Intn(len(states))].ID
			lca, err := g.LowestCommonAncestor(a, b)
			require.NoError(t, err)

			ancA := naiveAncestors(parents, a)
			ancB := naiveAncestors(parents, b)
			if lca == "" {
				for s := range ancA {
					assert.False(t, ancB[s], "%s and %s share %s but lca is empty", a, b, s)
				}
				continue
			}
			require.True(t, ancA[lca] && ancB[lca], "lca %s of %s,%s is not a common ancestor", lca, a, b)
			for _, child := range g.Children(lca) {
				assert.False(t, ancA[child] && ancB[child], "child %s of lca %s is also common to %s,%s", child, lca, a, b)
			}
		}
	}
}

func TestNewStateGraph_Errors(t *testing.T) {
	tests := []struct {
		name   string
		states []*StateConfig
		code   string
	}{
		{"empty", nil, CodeNoStates},
		{"duplicate", []*StateConfig{{ID: "a"}, {ID: "a"}}, CodeDuplicateState},
		{"unknown parent", []*StateConfig{{ID: "a"}, {ID: "b", Parent: "x"}}, CodeUnknownParent},
		{"cycle", []*StateConfig{{ID: "r"}, {ID: "a", Parent: "b", Initial: "b"}, {ID: "b", Parent: "a", Initial: "a"}}, CodeCycle},
		{"missing initial", []*StateConfig{{ID: "a"}, {ID: "b", Parent: "a"}}, CodeMissingInitial},
		{"foreign initial", []*StateConfig{{ID: "a", Initial: "c"}, {ID: "b", Parent: "a"}, {ID: "c"}}, CodeForeignInitial},
		{"history on leaf", []*StateConfig{{ID: "a", History: HistoryDeep}}, CodeHistoryOnLeaf},
		{"final with children", []*StateConfig{{ID: "a", Initial: "b", Final: true}, {ID: "b", Parent: "a"}}, CodeFinalWithChildren},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStateGraph(tt.states)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.True(t, cfgErr.HasCode(tt.code), "issues: %v", cfgErr.Issues)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestNewStateGraph_CopiesInput(t *testing.T) {
	in := []*StateConfig{{ID: "a", Initial: "b"}, {ID: "b", Parent: "a"}}
	g, err := NewStateGraph(in)
	require.NoError(t, err)

	in[0].Initial = "zzz"
	s, ok := g.State("a")
	require.True(t, ok)
	assert.Equal(t, StateID("b"), s.Initial)
}

func TestNewStateGraph_UnknownParentIsNotACycle(t *testing.T) {
	_, err := NewStateGraph([]*StateConfig{
		{ID: "a"},
		{ID: "b", Parent: "x", Initial: "c"},
		{ID: "c", Parent: "b"},
	})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, cfgErr.HasCode(CodeUnknownParent))
	assert.False(t, cfgErr.HasCode(CodeCycle), "issues: %v", cfgErr.Issues)
	require.Len(t, cfgErr.Issues, 1)
}

func TestStateGraph_AccessorsReturnCopies(t *testing.T) {
	g := tree(t)
	s, ok := g.State("A")
	require.True(t, ok)
	s.Initial = "ghost"
	s.Children[0] = "ghost"
	g.States()[1].Parent = "ghost"

	again, _ := g.State("A")
	assert.Equal(t, StateID("A1"), again.Initial)
	assert.Equal(t, []StateID{"A1", "A2"}, g.Children("A"))
	p, err := g.Parent("A1")
	require.NoError(t, err)
	assert.Equal(t, StateID("A"), p)
}
