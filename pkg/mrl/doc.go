// Package mrl provides parsing and evaluation for the Mercator Rule
// Language (MRL).
//
// MRL is a small boolean rule language for access decisions: given a rule
// string and a runtime context, it answers "may this principal do this
// action on this resource". It is deliberately not a general-purpose
// language: there are no variables, no function calls, and no side
// effects.
//
// # Architecture
//
// The package is organized into subpackages, data flowing strictly left to
// right through pure functions:
//
//   - lexer: rule text -> token stream (predicates fused into single tokens)
//   - parser: tokens -> RPN (shunting-yard) -> immutable ast.Expr tree
//   - ast: expression tree definitions and traversal
//   - eval: tree + context -> bool (total, never errors)
//   - errors: typed syntax errors with stable kinds
//
// # Grammar
//
//	expr       := or_expr
//	or_expr    := and_expr (OR and_expr)*
//	and_expr   := not_expr (AND not_expr)*
//	not_expr   := NOT not_expr | atom
//	atom       := "(" expr ")" | comparison | inset
//	comparison := FIELD CMPOP VALUE          ; CMPOP in {=, !=, >, >=, <, <=}
//	inset      := FIELD "IN" "{" VALUE ("," VALUE)* "}"
//
// Keywords are case-insensitive, whitespace is insignificant except as a
// separator, and comparison operators may be written without spaces
// ("age>=3"). Numeric literals parse as floats and integral values
// normalize without a fractional part; anything else is a string with
// optional surrounding quotes stripped.
//
// # Basic Usage
//
//	expr, err := mrl.Parse(`(role=admin) OR (country IN {DE, FR} AND app_version>=3)`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	allowed := mrl.Evaluate(expr, eval.Context{
//	    "role":        "user",
//	    "country":     "de",
//	    "app_version": 3,
//	})
//
// Parsed trees are immutable and safe to share: parse once per rule, cache
// the tree, and evaluate it concurrently against as many contexts as
// needed.
//
// # Error Handling
//
// Parse failures are typed *errors.SyntaxError values with stable kinds
// (unclosed_set, mismatched_parens, insufficient_operands,
// invalid_expression, unexpected_token). Evaluation never fails: missing
// fields and non-numeric ordering comparisons resolve to false, and
// missing values render as empty strings for equality checks.
package mrl
