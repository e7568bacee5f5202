package lexer

import (
	"testing"

	"mercator-hq/themis/pkg/mrl/ast"
	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
)

func TestTokenize_FusesComparison(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		field string
		op    ast.CompareOp
		value string
	}{
		{"spaced", "role = admin", "role", ast.OpEqual, "admin"},
		{"unspaced", "age>=3", "age", ast.OpGreaterEqual, "3"},
		{"unspaced not equal", "action!=delete", "action", ast.OpNotEqual, "delete"},
		{"less equal", "count <= 10", "count", ast.OpLessEqual, "10"},
		{"quoted value", `dept="finance"`, "dept", ast.OpEqual, `"finance"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.rule)
			if err != nil {
				t.Fatalf("Tokenize(%q) failed: %v", tt.rule, err)
			}
			if len(tokens) != 1 {
				t.Fatalf("len(tokens) = %d, want 1 (%v)", len(tokens), tokens)
			}
			tok := tokens[0]
			if tok.Type != TypeComparison {
				t.Fatalf("token type = %q, want %q", tok.Type, TypeComparison)
			}
			if tok.Field != tt.field {
				t.Errorf("field = %q, want %q", tok.Field, tt.field)
			}
			if tok.Op != tt.op {
				t.Errorf("op = %q, want %q", tok.Op, tt.op)
			}
			if tok.Value != tt.value {
				t.Errorf("value = %q, want %q", tok.Value, tt.value)
			}
		})
	}
}

func TestTokenize_LongestOperatorWins(t *testing.T) {
	// ">=" must not lex as ">" followed by "=3".
	tokens, err := Tokenize("app_version>=3")
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Op != ast.OpGreaterEqual {
		t.Errorf("tokens = %v, want single comparison with op >=", tokens)
	}
}

func TestTokenize_FusesInSet(t *testing.T) {
	tests := []struct {
		name   string
		rule   string
		field  string
		values []string
	}{
		{"plain", "country IN {DE, FR}", "country", []string{"DE", "FR"}},
		{"lower keyword", "country in {DE, FR}", "country", []string{"DE", "FR"}},
		{"quoted members", `env IN {"prod", 'staging'}`, "env", []string{"prod", "staging"}},
		{"single member", "role IN {admin}", "role", []string{"admin"}},
		{"empty set", "role IN {}", "role", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.rule)
			if err != nil {
				t.Fatalf("Tokenize(%q) failed: %v", tt.rule, err)
			}
			if len(tokens) != 1 {
				t.Fatalf("len(tokens) = %d, want 1 (%v)", len(tokens), tokens)
			}
			tok := tokens[0]
			if tok.Type != TypeInSet {
				t.Fatalf("token type = %q, want %q", tok.Type, TypeInSet)
			}
			if tok.Field != tt.field {
				t.Errorf("field = %q, want %q", tok.Field, tt.field)
			}
			if len(tok.Values) != len(tt.values) {
				t.Fatalf("values = %v, want %v", tok.Values, tt.values)
			}
			for i, v := range tt.values {
				if tok.Values[i] != v {
					t.Errorf("values[%d] = %q, want %q", i, tok.Values[i], v)
				}
			}
		})
	}
}

func TestTokenize_UnclosedSet(t *testing.T) {
	_, err := Tokenize("x IN {a, b")
	if err == nil {
		t.Fatal("Tokenize() succeeded, want unclosed_set error")
	}
	if !mrlerrors.IsKind(err, mrlerrors.KindUnclosedSet) {
		t.Errorf("error kind = %q, want %q", mrlerrors.KindOf(err), mrlerrors.KindUnclosedSet)
	}
}

func TestTokenize_KeywordsAndParens(t *testing.T) {
	tokens, err := Tokenize("(a=1 or b=2) and not c=3")
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}

	want := []Type{
		TypeOpenParen, TypeComparison, TypeOr, TypeComparison, TypeCloseParen,
		TypeAnd, TypeNot, TypeComparison,
	}
	if len(tokens) != len(want) {
		t.Fatalf("len(tokens) = %d, want %d (%v)", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("tokens[%d].Type = %q, want %q", i, tokens[i].Type, w)
		}
	}
}

func TestTokenize_OnlyFusedPredicatesEmitted(t *testing.T) {
	// Output guarantee: never raw field/op/value triples.
	tokens, err := Tokenize("NOT role=admin AND country IN {DE}")
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}
	for _, tok := range tokens {
		switch tok.Type {
		case TypeOpenParen, TypeCloseParen, TypeAnd, TypeOr, TypeNot,
			TypeComparison, TypeInSet:
		default:
			t.Errorf("unexpected raw token %q in output", tok.String())
		}
	}
}

func TestTokenize_BareWordPassesThrough(t *testing.T) {
	tokens, err := Tokenize("orphan AND a=1")
	if err != nil {
		t.Fatalf("Tokenize() failed: %v", err)
	}
	if tokens[0].Type != TypeWord || tokens[0].Text != "orphan" {
		t.Errorf("tokens[0] = %v, want word %q", tokens[0], "orphan")
	}
}

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"admin"`, "admin"},
		{`'admin'`, "admin"},
		{`admin`, "admin"},
		{`"admin'`, `"admin'`},
		{`"`, `"`},
		{``, ``},
	}
	for _, tt := range tests {
		if got := StripQuotes(tt.in); got != tt.want {
			t.Errorf("StripQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
