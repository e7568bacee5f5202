package audit

import (
	"time"

	"mercator-hq/themis/pkg/policy/engine"
)

// DecisionRecord is the persisted form of one rule evaluation.
// It flattens an engine.Decision for storage; the evaluation context is
// kept as a generic map and serialized by the backend.
type DecisionRecord struct {
	// ID is the decision ID (UUID).
	ID string

	// RuleSet and RuleSetVersion identify the ruleset in force.
	RuleSet        string
	RuleSetVersion string

	// Rule is the evaluated rule name.
	Rule string

	// Allowed is the decision outcome.
	Allowed bool

	// Context is the input the rule was evaluated against.
	Context map[string]any

	// EvaluatedAt is when evaluation started.
	EvaluatedAt time.Time

	// DurationMicros is the evaluation duration in microseconds.
	DurationMicros int64

	// RecordedAt is when the record was written to the audit log.
	RecordedAt time.Time
}

// Outcome returns "allow" or "deny".
func (r *DecisionRecord) Outcome() string {
	if r.Allowed {
		return "allow"
	}
	return "deny"
}

// FromDecision converts an engine decision into its audit record.
func FromDecision(d *engine.Decision) *DecisionRecord {
	return &DecisionRecord{
		ID:             d.ID,
		RuleSet:        d.RuleSet,
		RuleSetVersion: d.RuleSetVersion,
		Rule:           d.Rule,
		Allowed:        d.Allowed,
		Context:        d.Context,
		EvaluatedAt:    d.EvaluatedAt,
		DurationMicros: d.Duration.Microseconds(),
	}
}
