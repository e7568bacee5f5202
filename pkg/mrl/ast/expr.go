package ast

import (
	"fmt"
	"strings"
)

// NodeType represents the kind of expression node in an MRL rule tree.
type NodeType string

const (
	NodeAnd        NodeType = "and"        // Left AND Right
	NodeOr         NodeType = "or"         // Left OR Right
	NodeNot        NodeType = "not"        // NOT Child
	NodeComparison NodeType = "comparison" // Field Op Literal
	NodeInSet      NodeType = "in_set"     // Field IN {Values...}
)

// CompareOp represents a comparison operator in an MRL predicate.
type CompareOp string

const (
	OpEqual        CompareOp = "="
	OpNotEqual     CompareOp = "!="
	OpGreaterThan  CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
	OpLessThan     CompareOp = "<"
	OpLessEqual    CompareOp = "<="
)

// Valid returns true if op is one of the six MRL comparison operators.
func (op CompareOp) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual:
		return true
	}
	return false
}

// Ordering returns true for the operators that require numeric ordering
// semantics (>, >=, <, <=). Equality operators work on any operand type.
func (op CompareOp) Ordering() bool {
	switch op {
	case OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual:
		return true
	}
	return false
}

// Expr is a node in a parsed MRL rule tree.
//
// Expr is a closed tagged union: Type selects which fields are meaningful.
// And/Or use Left and Right, Not uses Child, Comparison uses Field, Op and
// Literal, InSet uses Field and Values. The tree is fully resolved at
// construction time and must be treated as immutable afterwards; a single
// Expr may be evaluated concurrently against any number of contexts.
type Expr struct {
	Type NodeType

	// Left and Right are the operands of And/Or nodes.
	Left  *Expr
	Right *Expr

	// Child is the operand of a Not node.
	Child *Expr

	// Field is the context key inspected by Comparison/InSet leaves.
	Field string

	// Op and Literal describe a Comparison leaf.
	Op      CompareOp
	Literal Literal

	// Values holds the members of an InSet leaf. Membership is tested
	// case-insensitively at evaluation time.
	Values []string
}

// NewAnd returns an AND node over the two operands.
func NewAnd(left, right *Expr) *Expr {
	return &Expr{Type: NodeAnd, Left: left, Right: right}
}

// NewOr returns an OR node over the two operands.
func NewOr(left, right *Expr) *Expr {
	return &Expr{Type: NodeOr, Left: left, Right: right}
}

// NewNot returns a NOT node over the operand.
func NewNot(child *Expr) *Expr {
	return &Expr{Type: NodeNot, Child: child}
}

// NewComparison returns a comparison leaf (field op literal).
func NewComparison(field string, op CompareOp, literal Literal) *Expr {
	return &Expr{Type: NodeComparison, Field: field, Op: op, Literal: literal}
}

// NewInSet returns a set-membership leaf (field IN {values...}).
func NewInSet(field string, values []string) *Expr {
	return &Expr{Type: NodeInSet, Field: field, Values: values}
}

// String returns a parenthesized, canonical rendering of the expression.
// It is intended for debugging and error messages, not for re-parsing.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Type {
	case NodeAnd:
		return fmt.Sprintf("(%s AND %s)", e.Left, e.Right)
	case NodeOr:
		return fmt.Sprintf("(%s OR %s)", e.Left, e.Right)
	case NodeNot:
		return fmt.Sprintf("(NOT %s)", e.Child)
	case NodeComparison:
		return fmt.Sprintf("%s%s%s", e.Field, e.Op, e.Literal)
	case NodeInSet:
		return fmt.Sprintf("%s IN {%s}", e.Field, strings.Join(e.Values, ", "))
	default:
		return fmt.Sprintf("<unknown node %q>", string(e.Type))
	}
}

// Equal reports whether two expression trees are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Type != other.Type {
		return false
	}
	switch e.Type {
	case NodeAnd, NodeOr:
		return e.Left.Equal(other.Left) && e.Right.Equal(other.Right)
	case NodeNot:
		return e.Child.Equal(other.Child)
	case NodeComparison:
		return e.Field == other.Field && e.Op == other.Op && e.Literal.Equal(other.Literal)
	case NodeInSet:
		if e.Field != other.Field || len(e.Values) != len(other.Values) {
			return false
		}
		for i, v := range e.Values {
			if v != other.Values[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
