package core

import (
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/comalice/hsmx/internal/primitives"
)

// HistoryStore remembers, per composite state, the active path below it at
// the moment it was last exited. The path starts with the direct child and
// ends with the leaf that was active.
//
// Records are kept for every composite state regardless of its history kind;
// the kind only decides how ResolveEntry uses them.
type HistoryStore struct {
	mu      sync.RWMutex
	graph   *primitives.StateGraph
	records map[primitives.StateID][]primitives.StateID
}

// NewHistoryStore creates an empty HistoryStore for graph.
func NewHistoryStore(graph *primitives.StateGraph) *HistoryStore {
	return &HistoryStore{
		graph:   graph,
		records: make(map[primitives.StateID][]primitives.StateID),
	}
}

// Record stores the active path below composite. Empty paths are ignored.
func (h *HistoryStore) Record(composite primitives.StateID, activePath []primitives.StateID) {
	if len(activePath) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[composite] = append([]primitives.StateID(nil), activePath...)
}

// ResolveEntry returns the states to enter below composite, outermost first.
//
//   - HistoryShallow: the recorded direct child
//   - HistoryDeep: the recorded path down to the leaf
//   - HistoryNone or no record: the static initial child
//
// Leaves and unknown ids resolve to nil.
func (h *HistoryStore) ResolveEntry(composite primitives.StateID) []primitives.StateID {
	s, ok := h.graph.State(composite)
	if !ok || s.IsLeaf() {
		return nil
	}

	h.mu.RLock()
	rec, found := h.records[composite]
	h.mu.RUnlock()

	if found {
		switch s.History {
		case primitives.HistoryShallow:
			return []primitives.StateID{rec[0]}
		case primitives.HistoryDeep:
			return append([]primitives.StateID(nil), rec...)
		}
	}
	return []primitives.StateID{s.Initial}
}

// LastActiveChild returns the direct child that was active when composite
// was last exited.
func (h *HistoryStore) LastActiveChild(composite primitives.StateID) (primitives.StateID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.records[composite]
	if !ok {
		return "", false
	}
	return rec[0], true
}

// Path returns the full recorded path below composite.
func (h *HistoryStore) Path(composite primitives.StateID) ([]primitives.StateID, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rec, ok := h.records[composite]
	if !ok {
		return nil, false
	}
	return append([]primitives.StateID(nil), rec...), true
}

// Clear removes the record for composite.
func (h *HistoryStore) Clear(composite primitives.StateID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.records, composite)
}

// Len returns the number of recorded composites.
func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Clone returns an independent copy sharing the same graph.
func (h *HistoryStore) Clone() *HistoryStore {
	return &HistoryStore{graph: h.graph, records: h.Export()}
}

// Export returns a deep copy of every record.
func (h *HistoryStore) Export() map[primitives.StateID][]primitives.StateID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[primitives.StateID][]primitives.StateID, len(h.records))
	if err := deepcopy.Copy(&out, &h.records); err != nil {
		for k, v := range h.records {
			out[k] = append([]primitives.StateID(nil), v...)
		}
	}
	return out
}

// Replace discards every record and installs a deep copy of records.
func (h *HistoryStore) Replace(records map[primitives.StateID][]primitives.StateID) {
	cp := make(map[primitives.StateID][]primitives.StateID, len(records))
	for k, v := range records {
		if len(v) == 0 {
			continue
		}
		cp[k] = append([]primitives.StateID(nil), v...)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = cp
}
