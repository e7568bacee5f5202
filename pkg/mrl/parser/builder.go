package parser

import (
	"math"
	"strconv"

	"mercator-hq/themis/pkg/mrl/ast"
	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
	"mercator-hq/themis/pkg/mrl/lexer"
)

// BuildAST consumes a postfix token stream and builds the expression tree
// using an explicit operand stack.
//
// Failure modes:
//   - insufficient_operands: a boolean operator is reached with too few
//     operands on the stack
//   - unexpected_token: a token that is neither operand nor operator
//     (typically a bare identifier that never fused into a predicate)
//   - invalid_expression: the stream does not reduce to exactly one root
func BuildAST(postfix []lexer.Token) (*ast.Expr, error) {
	var stack []*ast.Expr

	pop := func() *ast.Expr {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return e
	}

	for _, t := range postfix {
		switch t.Type {
		case lexer.TypeAnd, lexer.TypeOr:
			if len(stack) < 2 {
				return nil, mrlerrors.NewToken(mrlerrors.KindInsufficientOperands,
					"binary operator needs two operands", t.Text)
			}
			right, left := pop(), pop()
			if t.Type == lexer.TypeAnd {
				stack = append(stack, ast.NewAnd(left, right))
			} else {
				stack = append(stack, ast.NewOr(left, right))
			}

		case lexer.TypeNot:
			if len(stack) < 1 {
				return nil, mrlerrors.NewToken(mrlerrors.KindInsufficientOperands,
					"NOT needs one operand", t.Text)
			}
			stack = append(stack, ast.NewNot(pop()))

		case lexer.TypeComparison:
			stack = append(stack, ast.NewComparison(t.Field, t.Op, coerceLiteral(t.Value)))

		case lexer.TypeInSet:
			stack = append(stack, ast.NewInSet(t.Field, t.Values))

		default:
			return nil, mrlerrors.NewToken(mrlerrors.KindUnexpectedToken,
				"token is neither operand nor operator", t.String())
		}
	}

	if len(stack) != 1 {
		return nil, mrlerrors.New(mrlerrors.KindInvalidExpression,
			"rule does not reduce to a single expression")
	}
	return stack[0], nil
}

// coerceLiteral decides the type of a comparison's right-hand side.
// Surrounding quotes are stripped first; the result is numeric only if it
// parses as a finite float (non-finite and out-of-range values like "1e400"
// or "inf" deliberately stay strings). Integral numbers normalize to a
// text form without a fractional part, so 3.0 renders as "3".
func coerceLiteral(raw string) ast.Literal {
	s := lexer.StripQuotes(raw)
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return ast.NumberLiteral(n)
	}
	return ast.StringLiteral(s)
}
