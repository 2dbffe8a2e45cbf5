package extensibility

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/hsmx/internal/core"
)

const metricsSubsystem = "statechart"

// MetricsListener exports action counts and durations to Prometheus.
type MetricsListener struct {
	actions  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsListener registers the collectors on reg. Registering twice on
// the same registry with the same namespace panics.
func NewMetricsListener(reg prometheus.Registerer, namespace string) *MetricsListener {
	factory := promauto.With(reg)
	return &MetricsListener{
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: metricsSubsystem,
				Name:      "actions_total",
				Help:      "Total number of executed actions by phase and state",
			},
			[]string{"phase", "state"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: metricsSubsystem,
				Name:      "action_failures_total",
				Help:      "Total number of failed actions by phase and state",
			},
			[]string{"phase", "state"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: metricsSubsystem,
				Name:      "action_duration_seconds",
				Help:      "Action execution time in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"phase"},
		),
	}
}

// BeforeAction implements core.ActionListener.
func (l *MetricsListener) BeforeAction(core.ActionEvent) {}

// AfterAction implements core.ActionListener.
func (l *MetricsListener) AfterAction(e core.ActionEvent) {
	phase := e.Phase.String()
	l.actions.WithLabelValues(phase, string(e.State)).Inc()
	if e.Err != nil {
		l.failures.WithLabelValues(phase, string(e.State)).Inc()
	}
	l.duration.WithLabelValues(phase).Observe(e.Duration.Seconds())
}
