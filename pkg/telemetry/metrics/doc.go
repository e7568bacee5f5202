// Package metrics provides Prometheus instrumentation for the decision
// service: per-rule decision counters and latency histograms, ruleset
// reload tracking, and audit recorder drop counts, all exposed through a
// promhttp handler.
package metrics
