// Package parser compiles MRL token streams into expression trees.
//
// Compilation is two stages, both pure functions:
//
//	ToPostfix - shunting-yard reordering of the infix token stream into
//	            Reverse Polish Notation (NOT=3 right-assoc, AND=2, OR=1)
//	BuildAST  - operand-stack walk of the RPN stream producing the
//	            immutable ast.Expr tree, with numeric literal coercion
//
// The Parser type composes tokenization and both stages behind a single
// Parse(rule) call. All failures are typed *errors.SyntaxError values; no
// partial tree is ever returned.
package parser
