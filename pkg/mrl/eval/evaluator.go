package eval

import "mercator-hq/themis/pkg/mrl/ast"

// Evaluate walks a compiled expression tree against a context and returns
// the boolean outcome.
//
// Evaluate is total: it never fails and has no side effects. Missing fields
// and type mismatches resolve to documented defaults rather than errors,
// so a rule that parsed successfully can always be evaluated. The tree is
// read-only during evaluation and may be shared across goroutines.
func Evaluate(expr *ast.Expr, ctx Context) bool {
	if expr == nil {
		return false
	}

	switch expr.Type {
	case ast.NodeAnd:
		return Evaluate(expr.Left, ctx) && Evaluate(expr.Right, ctx)

	case ast.NodeOr:
		return Evaluate(expr.Left, ctx) || Evaluate(expr.Right, ctx)

	case ast.NodeNot:
		return !Evaluate(expr.Child, ctx)

	case ast.NodeComparison:
		value, _ := ctx.Lookup(expr.Field)
		return compare(expr.Op, value, expr.Literal)

	case ast.NodeInSet:
		value, ok := ctx.Lookup(expr.Field)
		if !ok {
			return false
		}
		return inSet(value, expr.Values)

	default:
		return false
	}
}
