package engine

import (
	"time"

	"mercator-hq/themis/pkg/mrl/ast"
	"mercator-hq/themis/pkg/mrl/eval"
)

// Rule is a single named access rule: a compiled MRL expression plus the
// metadata it was loaded with. The compiled tree is immutable and shared
// across evaluations.
type Rule struct {
	// Name uniquely identifies the rule within its ruleset.
	Name string

	// Description is optional human-readable documentation.
	Description string

	// Source is the original MRL rule text.
	Source string

	// Expr is the compiled expression tree.
	Expr *ast.Expr
}

// RuleSet is an immutable collection of named rules loaded from a source.
// Reloads never mutate a RuleSet; the engine swaps in a fresh one.
type RuleSet struct {
	// Name identifies the ruleset (e.g. "access-control").
	Name string

	// Version is the ruleset version string from the source file.
	Version string

	// Rules holds the rules in source order.
	Rules []*Rule

	// SourceData is the raw source the ruleset was loaded from, if the
	// source retains it (used by the revision store).
	SourceData []byte

	index map[string]*Rule
}

// NewRuleSet builds a ruleset and its name index.
func NewRuleSet(name, version string, rules []*Rule) *RuleSet {
	rs := &RuleSet{
		Name:    name,
		Version: version,
		Rules:   rules,
		index:   make(map[string]*Rule, len(rules)),
	}
	for _, r := range rules {
		rs.index[r.Name] = r
	}
	return rs
}

// Rule returns the named rule and whether it exists.
func (rs *RuleSet) Rule(name string) (*Rule, bool) {
	r, ok := rs.index[name]
	return r, ok
}

// Names returns the rule names in source order.
func (rs *RuleSet) Names() []string {
	names := make([]string, len(rs.Rules))
	for i, r := range rs.Rules {
		names[i] = r.Name
	}
	return names
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.Rules)
}

// Decision is the outcome of evaluating one rule against one context.
type Decision struct {
	// ID uniquely identifies this decision (UUID).
	ID string

	// RuleSet and RuleSetVersion identify the ruleset that produced the
	// decision.
	RuleSet        string
	RuleSetVersion string

	// Rule is the name of the evaluated rule.
	Rule string

	// Allowed is the boolean outcome.
	Allowed bool

	// Context is the input the rule was evaluated against.
	Context eval.Context

	// EvaluatedAt is when evaluation started.
	EvaluatedAt time.Time

	// Duration is how long evaluation took.
	Duration time.Duration
}

// Outcome returns "allow" or "deny" for logging and metrics labels.
func (d *Decision) Outcome() string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}
