package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Session lifecycle events.
const (
	SessionOpened    = "opened"
	SessionSubmitted = "submitted"
	SessionCancelled = "cancelled"
	SessionExpired   = "expired"
)

// ConfiguratorMetrics records edit-session activity.
type ConfiguratorMetrics struct {
	commands        *prometheus.CounterVec
	sessions        *prometheus.CounterVec
	submitDuration  *prometheus.HistogramVec
	removedVariants prometheus.Counter
}

// NewConfiguratorMetrics registers the edit-session metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewConfiguratorMetrics(reg prometheus.Registerer) *ConfiguratorMetrics {
	if reg == nil {
		return &ConfiguratorMetrics{}
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_commands_total",
		Help: "Edit commands processed, by operation and outcome.",
	}, []string{"op", "outcome"})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "configurator_sessions_total",
		Help: "Edit session lifecycle events.",
	}, []string{"event"})
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "configurator_submit_duration_seconds",
		Help:    "Time spent persisting a submitted product.",
		Buckets: prometheus.DefBuckets,
	}, []string{"shape"})
	removedVariants := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "configurator_removed_variants_total",
		Help: "Variants deleted by confirmed option value removals.",
	})
	reg.MustRegister(commands, sessions, submitDuration, removedVariants)
	return &ConfiguratorMetrics{
		commands:        commands,
		sessions:        sessions,
		submitDuration:  submitDuration,
		removedVariants: removedVariants,
	}
}

// IncCommand counts one processed command.
func (m *ConfiguratorMetrics) IncCommand(op, outcome string) {
	if m == nil || m.commands == nil {
		return
	}
	m.commands.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncSession counts one lifecycle event.
func (m *ConfiguratorMetrics) IncSession(event string) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.WithLabelValues(normalizeLabel(event)).Inc()
}

// ObserveSubmit records how long persisting a submission took.
func (m *ConfiguratorMetrics) ObserveSubmit(shape string, duration time.Duration) {
	if m == nil || m.submitDuration == nil {
		return
	}
	m.submitDuration.WithLabelValues(normalizeLabel(shape)).Observe(duration.Seconds())
}

// AddRemovedVariants counts variants deleted through a confirmed removal.
func (m *ConfiguratorMetrics) AddRemovedVariants(n int) {
	if m == nil || m.removedVariants == nil || n <= 0 {
		return
	}
	m.removedVariants.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
