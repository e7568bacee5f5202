package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes the syntax errors the MRL parser can report.
type Kind string

const (
	// KindUnclosedSet is reported when an IN { ... } construct never
	// reaches its closing brace.
	KindUnclosedSet Kind = "unclosed_set"

	// KindMismatchedParens is reported for unbalanced parentheses.
	KindMismatchedParens Kind = "mismatched_parens"

	// KindInsufficientOperands is reported when a boolean operator has
	// too few operands available while the tree is built.
	KindInsufficientOperands Kind = "insufficient_operands"

	// KindInvalidExpression is reported when the token stream does not
	// reduce to exactly one root expression.
	KindInvalidExpression Kind = "invalid_expression"

	// KindUnexpectedToken is reported for any token the builder does not
	// recognize as operand or operator (e.g. a bare identifier).
	KindUnexpectedToken Kind = "unexpected_token"
)

// SyntaxError is a typed parse error for an MRL rule.
//
// Parse errors are fatal to the Parse call: no partial tree is ever
// returned alongside one. Parsing the same malformed rule deterministically
// yields the same error kind every time.
type SyntaxError struct {
	// Kind is the error category.
	Kind Kind

	// Message describes the problem.
	Message string

	// Token is the offending token text, if one is known.
	Token string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("[%s] %s: %q", e.Kind, e.Message, e.Token)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// New creates a syntax error of the given kind.
func New(kind Kind, message string) *SyntaxError {
	return &SyntaxError{Kind: kind, Message: message}
}

// NewToken creates a syntax error of the given kind referencing the
// offending token.
func NewToken(kind Kind, message, token string) *SyntaxError {
	return &SyntaxError{Kind: kind, Message: message, Token: token}
}

// KindOf returns the kind of err if it is (or wraps) a SyntaxError,
// or the empty kind otherwise.
func KindOf(err error) Kind {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is (or wraps) a SyntaxError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
