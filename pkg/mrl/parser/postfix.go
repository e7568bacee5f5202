package parser

import (
	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
	"mercator-hq/themis/pkg/mrl/lexer"
)

// Operator precedence: NOT binds tightest, OR loosest.
var precedence = map[lexer.Type]int{
	lexer.TypeNot: 3,
	lexer.TypeAnd: 2,
	lexer.TypeOr:  1,
}

// rightAssociative marks the operators that do not pop equal-precedence
// operators off the stack. NOT is unary and right-associative; AND and OR
// are left-associative.
var rightAssociative = map[lexer.Type]bool{
	lexer.TypeNot: true,
}

// ToPostfix reorders an infix token stream into Reverse Polish Notation
// using the shunting-yard algorithm. Operand tokens (fused predicates and
// stray words) pass straight through to the output; parentheses bracket
// local scope and are consumed.
//
// It fails with a mismatched_parens error when a ')' has no matching '('
// or an unclosed '(' survives to the end of input.
func ToPostfix(tokens []lexer.Token) ([]lexer.Token, error) {
	out := make([]lexer.Token, 0, len(tokens))
	var ops []lexer.Token

	for _, t := range tokens {
		switch {
		case t.Type == lexer.TypeOpenParen:
			ops = append(ops, t)

		case t.Type == lexer.TypeCloseParen:
			for len(ops) > 0 && ops[len(ops)-1].Type != lexer.TypeOpenParen {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, mrlerrors.New(mrlerrors.KindMismatchedParens,
					"')' with no matching '('")
			}
			ops = ops[:len(ops)-1] // discard the '('

		case t.IsBoolOp():
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				topPrec, isOp := precedence[top.Type]
				if !isOp {
					break
				}
				if topPrec > precedence[t.Type] ||
					(topPrec == precedence[t.Type] && !rightAssociative[t.Type]) {
					out = append(out, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, t)

		default:
			out = append(out, t)
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		if top.Type == lexer.TypeOpenParen || top.Type == lexer.TypeCloseParen {
			return nil, mrlerrors.New(mrlerrors.KindMismatchedParens,
				"'(' is never closed")
		}
		out = append(out, top)
		ops = ops[:len(ops)-1]
	}

	return out, nil
}
