package ast

import (
	"math"
	"strconv"
)

// LiteralType represents the type of a literal in an MRL comparison.
// MRL has exactly two literal types; the parser decides between them
// when the rule is compiled, never at evaluation time.
type LiteralType string

const (
	LiteralNumber LiteralType = "number"
	LiteralString LiteralType = "string"
)

// Literal is the right-hand side of a comparison predicate.
// Number is meaningful only when Type is LiteralNumber; Text always holds
// the canonical string form (used for case-insensitive string comparison).
type Literal struct {
	Type   LiteralType
	Number float64
	Text   string
}

// NumberLiteral returns a numeric literal. The canonical text form drops
// the fractional part when the value is integral, so NumberLiteral(3.0)
// renders as "3".
func NumberLiteral(n float64) Literal {
	return Literal{Type: LiteralNumber, Number: n, Text: FormatNumber(n)}
}

// StringLiteral returns a string literal.
func StringLiteral(s string) Literal {
	return Literal{Type: LiteralString, Text: s}
}

// IsNumber returns true if the literal is numeric.
func (l Literal) IsNumber() bool {
	return l.Type == LiteralNumber
}

// String returns the canonical string form of the literal.
func (l Literal) String() string {
	return l.Text
}

// Equal reports whether two literals have the same type and value.
func (l Literal) Equal(other Literal) bool {
	if l.Type != other.Type {
		return false
	}
	if l.Type == LiteralNumber {
		return l.Number == other.Number
	}
	return l.Text == other.Text
}

// FormatNumber renders a float the way MRL strings numbers: integral
// values without a fractional part ("3", not "3.0"), everything else in
// the shortest representation that round-trips.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
