package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics tracks metrics related to the engine lifecycle.
//
// Metrics:
//   - themis_ruleset_reloads_total: Ruleset reloads by result
//   - themis_ruleset_rules: Number of rules in the active ruleset
//   - themis_rule_parse_errors_total: Rule expressions rejected at compile time
//   - themis_audit_dropped_total: Audit records dropped by the recorder
type EngineMetrics struct {
	enabled bool

	reloadsTotal    *prometheus.CounterVec
	rulesetRules    prometheus.Gauge
	parseErrors     prometheus.Counter
	auditDropsTotal prometheus.Counter
}

// NewEngineMetrics creates and registers engine metrics with the provided
// registry.
func NewEngineMetrics(cfg Config, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		enabled: cfg.Enabled,

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "ruleset_reloads_total",
				Help:      "Total number of ruleset reload attempts",
			},
			[]string{"result"},
		),

		rulesetRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "ruleset_rules",
				Help:      "Number of rules in the active ruleset",
			},
		),

		parseErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_parse_errors_total",
				Help:      "Total number of rule expressions rejected at compile time",
			},
		),

		auditDropsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_dropped_total",
				Help:      "Total number of audit records dropped by the recorder",
			},
		),
	}

	registry.MustRegister(
		em.reloadsTotal,
		em.rulesetRules,
		em.parseErrors,
		em.auditDropsTotal,
	)

	return em
}

// RecordReload records a ruleset reload attempt. Result is "success" or
// "failure". On success the active rule count gauge is updated.
func (em *EngineMetrics) RecordReload(result string, ruleCount int) {
	if !em.enabled {
		return
	}
	em.reloadsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		em.rulesetRules.Set(float64(ruleCount))
	}
}

// RecordParseError records a rule expression rejected at compile time.
func (em *EngineMetrics) RecordParseError() {
	if !em.enabled {
		return
	}
	em.parseErrors.Inc()
}

// RecordAuditDrop records an audit record dropped by the recorder.
func (em *EngineMetrics) RecordAuditDrop() {
	if !em.enabled {
		return
	}
	em.auditDropsTotal.Inc()
}
