package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DecisionMetrics tracks metrics related to rule evaluation.
//
// Metrics:
//   - themis_decisions_total: Total decisions by ruleset, rule, and outcome
//   - themis_decision_duration_seconds: Evaluation duration per rule
type DecisionMetrics struct {
	enabled bool

	// Total decisions by outcome
	decisionsTotal *prometheus.CounterVec

	// Evaluation duration histogram
	decisionDuration *prometheus.HistogramVec
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg Config, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		enabled: cfg.Enabled,

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decisions_total",
				Help:      "Total number of rule decisions",
			},
			[]string{"ruleset", "rule", "outcome"},
		),

		decisionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				// Tree-walking evaluation should be fast (< 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"rule"},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.decisionDuration,
	)

	return dm
}

// RecordDecision records one rule evaluation.
//
// Example:
//
//	dm.RecordDecision("access", "can_edit", "allow", 80*time.Microsecond)
func (dm *DecisionMetrics) RecordDecision(ruleset, rule, outcome string, duration time.Duration) {
	if !dm.enabled {
		return
	}
	dm.decisionsTotal.WithLabelValues(ruleset, rule, outcome).Inc()
	dm.decisionDuration.WithLabelValues(rule).Observe(duration.Seconds())
}
