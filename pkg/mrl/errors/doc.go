// Package errors provides the typed syntax errors reported by the MRL
// parser.
//
// Every parse failure is a *SyntaxError carrying a Kind that callers can
// branch on without string matching:
//
//	expr, err := mrl.Parse(rule)
//	if mrlerrors.IsKind(err, mrlerrors.KindMismatchedParens) {
//	    // unbalanced parentheses
//	}
//
// Evaluation never produces errors: missing fields and type mismatches
// resolve to documented defaults instead.
package errors
