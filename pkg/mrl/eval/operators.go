package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mercator-hq/themis/pkg/mrl/ast"
)

// compare evaluates a comparison leaf against the looked-up field value.
//
// If both the field value and the literal can be interpreted as numbers the
// comparison is numeric with standard ordering. Otherwise both sides render
// as lower-cased strings where only =/!= are meaningful; ordering operators
// on non-numeric operands are always false.
func compare(op ast.CompareOp, fieldValue any, literal ast.Literal) bool {
	lnum, lok := toNumber(fieldValue)
	rnum, rok := literalNumber(literal)

	if lok && rok {
		return compareNumeric(op, lnum, rnum)
	}

	ls := strings.ToLower(toText(fieldValue))
	rs := strings.ToLower(literal.String())
	switch op {
	case ast.OpEqual:
		return ls == rs
	case ast.OpNotEqual:
		return ls != rs
	}
	return false
}

// compareNumeric applies an operator with standard ordering semantics.
func compareNumeric(op ast.CompareOp, left, right float64) bool {
	switch op {
	case ast.OpEqual:
		return left == right
	case ast.OpNotEqual:
		return left != right
	case ast.OpGreaterThan:
		return left > right
	case ast.OpGreaterEqual:
		return left >= right
	case ast.OpLessThan:
		return left < right
	case ast.OpLessEqual:
		return left <= right
	}
	return false
}

// inSet evaluates a set-membership leaf. Absent fields are never members;
// membership is case-insensitive over the string form of the value.
func inSet(fieldValue any, values []string) bool {
	if fieldValue == nil {
		return false
	}
	s := strings.ToLower(toText(fieldValue))
	for _, v := range values {
		if s == strings.ToLower(v) {
			return true
		}
	}
	return false
}

// literalNumber returns the numeric value of a literal, if it has one.
// Coercion already happened at parse time, so this is just a type check.
func literalNumber(l ast.Literal) (float64, bool) {
	if l.IsNumber() {
		return l.Number, true
	}
	return 0, false
}

// toNumber interprets a context value as a number. Strings take the numeric
// path only when they parse as a finite float; booleans count as 1 and 0.
// Absent (nil) values are never numbers; missing data is untyped, not zero.
func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

// toText renders a context value for string comparison. Missing values
// render as the empty string; numbers use the canonical MRL form (integral
// values without a fractional part) so that int(3) and "3" compare equal.
func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		if n, ok := toNumber(v); ok {
			return ast.FormatNumber(n)
		}
		return fmt.Sprint(v)
	}
}
