package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// DecisionIDKey is the context key for decision IDs.
	DecisionIDKey contextKey = "decision_id"

	// RuleKey is the context key for rule names.
	RuleKey contextKey = "rule"

	// RuleSetKey is the context key for ruleset names.
	RuleSetKey contextKey = "ruleset"
)

// WithDecisionID adds a decision ID to the context.
func WithDecisionID(ctx context.Context, decisionID string) context.Context {
	return context.WithValue(ctx, DecisionIDKey, decisionID)
}

// GetDecisionID retrieves the decision ID from the context.
func GetDecisionID(ctx context.Context) string {
	if id, ok := ctx.Value(DecisionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRule adds a rule name to the context.
func WithRule(ctx context.Context, rule string) context.Context {
	return context.WithValue(ctx, RuleKey, rule)
}

// GetRule retrieves the rule name from the context.
func GetRule(ctx context.Context) string {
	if rule, ok := ctx.Value(RuleKey).(string); ok {
		return rule
	}
	return ""
}

// WithRuleSet adds a ruleset name to the context.
func WithRuleSet(ctx context.Context, ruleset string) context.Context {
	return context.WithValue(ctx, RuleSetKey, ruleset)
}

// GetRuleSet retrieves the ruleset name from the context.
func GetRuleSet(ctx context.Context) string {
	if ruleset, ok := ctx.Value(RuleSetKey).(string); ok {
		return ruleset
	}
	return ""
}

// ContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func ContextFields(ctx context.Context) []any {
	var fields []any

	if id := GetDecisionID(ctx); id != "" {
		fields = append(fields, "decision_id", id)
	}
	if rule := GetRule(ctx); rule != "" {
		fields = append(fields, "rule", rule)
	}
	if ruleset := GetRuleSet(ctx); ruleset != "" {
		fields = append(fields, "ruleset", ruleset)
	}

	return fields
}
