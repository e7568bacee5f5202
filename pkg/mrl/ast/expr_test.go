package ast

import (
	"testing"
)

func TestExpr_String(t *testing.T) {
	expr := NewOr(
		NewComparison("role", OpEqual, StringLiteral("admin")),
		NewAnd(
			NewInSet("country", []string{"DE", "FR"}),
			NewNot(NewComparison("action", OpEqual, StringLiteral("delete"))),
		),
	)

	want := "(role=admin OR (country IN {DE, FR} AND (NOT action=delete)))"
	if got := expr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestExpr_Equal(t *testing.T) {
	a := NewAnd(
		NewComparison("a", OpEqual, NumberLiteral(1)),
		NewComparison("b", OpEqual, NumberLiteral(2)),
	)
	b := NewAnd(
		NewComparison("a", OpEqual, NumberLiteral(1)),
		NewComparison("b", OpEqual, NumberLiteral(2)),
	)
	if !a.Equal(b) {
		t.Error("identical trees compare unequal")
	}

	// Operand order matters.
	c := NewAnd(
		NewComparison("b", OpEqual, NumberLiteral(2)),
		NewComparison("a", OpEqual, NumberLiteral(1)),
	)
	if a.Equal(c) {
		t.Error("swapped operands compare equal")
	}

	if a.Equal(nil) {
		t.Error("tree compares equal to nil")
	}
}

func TestLiteral_Equal(t *testing.T) {
	if !NumberLiteral(3).Equal(NumberLiteral(3.0)) {
		t.Error("3 != 3.0")
	}
	if NumberLiteral(3).Equal(StringLiteral("3")) {
		t.Error("number 3 equals string \"3\"")
	}
	if !StringLiteral("x").Equal(StringLiteral("x")) {
		t.Error("identical strings compare unequal")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{3.0, "3"},
		{-2, "-2"},
		{3.5, "3.5"},
		{0, "0"},
		{1000, "1000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFields(t *testing.T) {
	expr := NewOr(
		NewComparison("role", OpEqual, StringLiteral("admin")),
		NewAnd(
			NewInSet("country", []string{"DE"}),
			NewComparison("role", OpNotEqual, StringLiteral("guest")),
		),
	)

	got := Fields(expr)
	want := []string{"role", "country"}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompareOp_Valid(t *testing.T) {
	for _, op := range []CompareOp{OpEqual, OpNotEqual, OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual} {
		if !op.Valid() {
			t.Errorf("%q reported invalid", op)
		}
	}
	if CompareOp("==").Valid() {
		t.Error(`"==" reported valid`)
	}
}
