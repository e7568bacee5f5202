package mrl

import (
	"mercator-hq/themis/pkg/mrl/ast"
	"mercator-hq/themis/pkg/mrl/eval"
	"mercator-hq/themis/pkg/mrl/parser"
)

// Parse is a convenience function that compiles a rule string into an
// expression tree with the default parser configuration. It returns a
// typed *errors.SyntaxError on malformed input.
//
// Compilation is comparatively expensive; callers evaluating the same rule
// against many contexts should parse once and cache the tree.
func Parse(rule string) (*ast.Expr, error) {
	return parser.NewParser().Parse(rule)
}

// MustParse is like Parse but panics on error. It is intended for
// compile-time-constant rules in tests and examples.
func MustParse(rule string) *ast.Expr {
	expr, err := Parse(rule)
	if err != nil {
		panic(err)
	}
	return expr
}

// Evaluate walks a compiled expression tree against a context. It is total
// and side-effect-free; see the eval package for the comparison semantics.
func Evaluate(expr *ast.Expr, ctx eval.Context) bool {
	return eval.Evaluate(expr, ctx)
}

// Decide is a one-shot helper that parses and immediately evaluates a rule.
// Prefer Parse + Evaluate when the rule will be reused.
func Decide(rule string, ctx eval.Context) (bool, error) {
	expr, err := Parse(rule)
	if err != nil {
		return false, err
	}
	return eval.Evaluate(expr, ctx), nil
}
