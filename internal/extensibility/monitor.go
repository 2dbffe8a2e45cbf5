package extensibility

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/hsmx/internal/core"
)

// ExecStats aggregates the timings of one transition.
type ExecStats struct {
	Key      string
	Count    int
	Failures int
	Total    time.Duration
	Max      time.Duration
}

// Mean returns the average action duration.
func (s ExecStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// ExecTimeMonitor aggregates action durations per transition, keyed as
// "from-[event]->to", and warns about actions slower than a threshold.
type ExecTimeMonitor struct {
	mu        sync.Mutex
	logger    *zap.Logger
	threshold time.Duration
	stats     map[string]*ExecStats
}

// NewExecTimeMonitor creates a monitor. A zero threshold disables warnings.
func NewExecTimeMonitor(logger *zap.Logger, threshold time.Duration) *ExecTimeMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecTimeMonitor{
		logger:    logger,
		threshold: threshold,
		stats:     make(map[string]*ExecStats),
	}
}

// BeforeAction implements core.ActionListener.
func (m *ExecTimeMonitor) BeforeAction(core.ActionEvent) {}

// AfterAction implements core.ActionListener.
func (m *ExecTimeMonitor) AfterAction(e core.ActionEvent) {
	key := fmt.Sprintf("%s-[%s]->%s", e.From, e.Event.Type, e.To)

	m.mu.Lock()
	s, ok := m.stats[key]
	if !ok {
		s = &ExecStats{Key: key}
		m.stats[key] = s
	}
	s.Count++
	s.Total += e.Duration
	if e.Duration > s.Max {
		s.Max = e.Duration
	}
	if e.Err != nil {
		s.Failures++
	}
	m.mu.Unlock()

	if m.threshold > 0 && e.Duration > m.threshold {
		m.logger.Warn("slow action",
			zap.String("transition", key),
			zap.Stringer("phase", e.Phase),
			zap.String("state", string(e.State)),
			zap.Duration("took", e.Duration),
			zap.Duration("threshold", m.threshold))
	}
}

// Stats returns a copy of the aggregated timings sorted by key.
func (m *ExecTimeMonitor) Stats() []ExecStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ExecStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Reset discards all aggregated timings.
func (m *ExecTimeMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(map[string]*ExecStats)
}
