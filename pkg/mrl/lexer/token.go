package lexer

import (
	"fmt"
	"strings"

	"mercator-hq/themis/pkg/mrl/ast"
)

// Type represents the kind of a lexical token.
//
// The tokenizer fuses whole predicates into single tokens before the parser
// ever sees them: a stream handed to the parser contains only parentheses,
// boolean keywords, fused Comparison/InSet predicates, and stray words that
// the builder will reject as unexpected.
type Type string

const (
	TypeOpenParen  Type = "open_paren"
	TypeCloseParen Type = "close_paren"
	TypeAnd        Type = "and"
	TypeOr         Type = "or"
	TypeNot        Type = "not"
	TypeComparison Type = "comparison"
	TypeInSet      Type = "in_set"

	// TypeWord is anything left over: a bare identifier, an operator with
	// no predicate around it, or a brace outside an IN set. Words are not
	// valid operands and surface as unexpected_token during AST building.
	TypeWord Type = "word"
)

// Token is one lexical unit of an MRL rule.
type Token struct {
	Type Type

	// Text is the raw token text for words and keywords.
	Text string

	// Field, Op and Value describe a fused Comparison token.
	// Value is the raw right-hand side; quote stripping and numeric
	// coercion happen when the AST leaf is built.
	Field string
	Op    ast.CompareOp
	Value string

	// Field and Values describe a fused InSet token (quotes already
	// stripped from the members).
	Values []string
}

// IsBoolOp returns true for AND/OR/NOT tokens.
func (t Token) IsBoolOp() bool {
	return t.Type == TypeAnd || t.Type == TypeOr || t.Type == TypeNot
}

// IsOperand returns true for fused predicate tokens.
func (t Token) IsOperand() bool {
	return t.Type == TypeComparison || t.Type == TypeInSet
}

// String returns a readable rendering of the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case TypeOpenParen:
		return "("
	case TypeCloseParen:
		return ")"
	case TypeAnd:
		return "AND"
	case TypeOr:
		return "OR"
	case TypeNot:
		return "NOT"
	case TypeComparison:
		return fmt.Sprintf("%s%s%s", t.Field, t.Op, t.Value)
	case TypeInSet:
		return fmt.Sprintf("%s IN {%s}", t.Field, strings.Join(t.Values, ", "))
	default:
		return t.Text
	}
}

// StripQuotes removes one pair of matching surrounding single or double
// quotes, if present.
func StripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
