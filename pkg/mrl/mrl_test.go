package mrl

import (
	"testing"

	"mercator-hq/themis/pkg/mrl/eval"
)

// referenceRule is the canonical access rule used throughout the
// documentation: admins may always act, finance may work with reports
// except deletion, and recent app versions from DE/FR are allowed.
const referenceRule = `
(role=admin)
OR
(dept=finance AND resource=reports AND NOT action=delete)
OR
(country IN {DE, FR} AND app_version>=3)
`

func TestDecide_ReferenceRule(t *testing.T) {
	expr, err := Parse(referenceRule)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	tests := []struct {
		name string
		ctx  eval.Context
		want bool
	}{
		{
			"admin always allowed",
			eval.Context{"role": "admin", "dept": "it", "resource": "db", "action": "delete", "country": "US", "app_version": 1},
			true,
		},
		{
			"finance viewing reports",
			eval.Context{"role": "user", "dept": "finance", "resource": "reports", "action": "view", "country": "US", "app_version": 2},
			true,
		},
		{
			"finance deleting reports denied",
			eval.Context{"role": "user", "dept": "finance", "resource": "reports", "action": "delete", "country": "US", "app_version": 2},
			false,
		},
		{
			"DE with recent version",
			eval.Context{"role": "user", "dept": "sales", "resource": "dash", "action": "view", "country": "DE", "app_version": 3},
			true,
		},
		{
			"DE with old version denied",
			eval.Context{"role": "user", "dept": "sales", "resource": "dash", "action": "view", "country": "DE", "app_version": 2},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(expr, tt.ctx); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_ParenthesesChangeEvaluation(t *testing.T) {
	// AND binds tighter than OR, so the unparenthesized form differs from
	// the parenthesized one for a=1 true, b=2 false, c=3 false.
	ctx := eval.Context{"a": 1, "b": 0, "c": 0}

	flat := MustParse("a=1 OR b=2 AND c=3")
	grouped := MustParse("(a=1 OR b=2) AND c=3")

	if got := Evaluate(flat, ctx); !got {
		t.Error("unparenthesized form = false, want true")
	}
	if got := Evaluate(grouped, ctx); got {
		t.Error("parenthesized form = true, want false")
	}
}

func TestDecide_OneShot(t *testing.T) {
	allowed, err := Decide("role=admin", eval.Context{"role": "Admin"})
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}
	if !allowed {
		t.Error("Decide() = false, want true")
	}

	if _, err := Decide("a=1 AND (b=2", eval.Context{}); err == nil {
		t.Error("Decide() with malformed rule succeeded, want error")
	}
}

func TestMustParse_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse() did not panic on malformed rule")
		}
	}()
	MustParse("AND a=1")
}

func TestParse_SharedTreeAcrossContexts(t *testing.T) {
	// A single compiled tree serves many contexts.
	expr := MustParse("app_version>=3")
	for i := 0; i < 5; i++ {
		want := i >= 3
		if got := Evaluate(expr, eval.Context{"app_version": i}); got != want {
			t.Errorf("Evaluate(app_version=%d) = %v, want %v", i, got, want)
		}
	}
}
