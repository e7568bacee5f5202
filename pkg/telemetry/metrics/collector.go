package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled controls whether metrics are recorded.
	Enabled bool

	// Namespace is the Prometheus namespace for all metrics.
	// Default: "themis"
	Namespace string
}

// Collector is the orchestrator for all Prometheus metrics in Themis.
// It manages metric registration and provides a unified interface for
// recording metrics across components. Recording is a no-op when metrics
// are disabled, so callers never need to guard their own call sites.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	decisionMetrics *DecisionMetrics
	engineMetrics   *EngineMetrics
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "themis"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.decisionMetrics = NewDecisionMetrics(cfg, registry)
	c.engineMetrics = NewEngineMetrics(cfg, registry)

	return c
}

// Decisions returns the decision metric subsystem.
func (c *Collector) Decisions() *DecisionMetrics {
	return c.decisionMetrics
}

// Engine returns the engine metric subsystem.
func (c *Collector) Engine() *EngineMetrics {
	return c.engineMetrics
}

// Enabled reports whether metric recording is active.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
