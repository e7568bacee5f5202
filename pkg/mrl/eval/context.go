package eval

// Context is the runtime key-value mapping a rule is evaluated against.
// Keys are case-sensitive field names; values may be numbers (any Go
// numeric type), strings, or booleans. Absent fields are not errors: they
// resolve to the documented defaults (empty string for string comparison,
// false for set membership and numeric ordering).
//
// The evaluator never mutates a context. A context is not required to be
// thread-safe as long as it is not mutated concurrently with evaluation.
type Context map[string]any

// Lookup returns the value for a field and whether it was present.
// A field explicitly set to nil counts as absent, matching the semantics
// of missing data.
func (c Context) Lookup(field string) (any, bool) {
	v, ok := c[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
