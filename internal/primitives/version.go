package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

type versionState struct {
	ID      StateID     `json:"id"`
	Parent  StateID     `json:"parent,omitempty"`
	Initial StateID     `json:"initial,omitempty"`
	History HistoryKind `json:"history"`
	Final   bool        `json:"final,omitempty"`
}

type versionTransition struct {
	Source StateID        `json:"source"`
	Target StateID        `json:"target"`
	Event  EventID        `json:"event"`
	Kind   TransitionKind `json:"kind"`
}

type versionDoc struct {
	ID          string              `json:"id"`
	Initial     StateID             `json:"initial"`
	Completion  EventID             `json:"completion"`
	States      []versionState      `json:"states"`
	Transitions []versionTransition `json:"transitions"`
}

// ComputeVersion returns a deterministic version derived from the structure
// of the chart: SHA256 over its states and transitions, truncated to 8 bytes.
// Actions and guards are functions and do not contribute.
func ComputeVersion(c *Chart) string {
	doc := versionDoc{ID: c.id, Initial: c.initial, Completion: c.completion}
	for _, id := range c.graph.order {
		s := c.graph.states[id]
		doc.States = append(doc.States, versionState{
			ID:      s.ID,
			Parent:  s.Parent,
			Initial: s.Initial,
			History: s.History,
			Final:   s.Final,
		})
	}
	for _, t := range c.table.all {
		doc.Transitions = append(doc.Transitions, versionTransition{
			Source: t.Source,
			Target: t.Target,
			Event:  t.Event,
			Kind:   t.Kind,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "unversioned"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
