// Package ast provides the expression tree definitions for the Mercator Rule
// Language (MRL).
//
// An MRL rule compiles to an immutable tree of Expr nodes. Expr is a closed
// tagged union with five variants:
//
//	And        - both operands must hold
//	Or         - at least one operand must hold
//	Not        - operand must not hold
//	Comparison - field op literal (e.g. app_version >= 3)
//	InSet      - field IN {v1, v2, ...} (case-insensitive membership)
//
// # Basic Usage
//
// Trees are normally produced by the parser, but can be constructed directly:
//
//	expr := ast.NewOr(
//	    ast.NewComparison("role", ast.OpEqual, ast.StringLiteral("admin")),
//	    ast.NewInSet("country", []string{"DE", "FR"}),
//	)
//
// Use the visitor for traversal:
//
//	err := ast.Walk(expr, myVisitor)
//
// # Immutability
//
// Expr nodes must be treated as immutable after construction. A compiled
// tree is safe to share across goroutines and evaluate concurrently against
// independent contexts without locking.
package ast
