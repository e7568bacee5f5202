package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
	"mercator-hq/themis/pkg/mrl/parser"
	"mercator-hq/themis/pkg/policy/engine"
)

const validRuleSet = `
ruleset: access-control
version: "1.0.0"
rules:
  - name: can-view-reports
    description: Finance may view reports
    rule: "(role=admin) OR (dept=finance AND resource=reports)"
  - name: adults-only
    rule: "age >= 18"
  - name: eu-countries
    rule: "country IN {DE, FR, IT}"
`

func writeRuleSet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing ruleset file: %v", err)
	}
	return path
}

func TestFileSourceLoad(t *testing.T) {
	path := writeRuleSet(t, validRuleSet)
	src := NewFileSource(path)

	rs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if rs.Name != "access-control" || rs.Version != "1.0.0" {
		t.Errorf("ruleset = %s/%s, want access-control/1.0.0", rs.Name, rs.Version)
	}
	if rs.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", rs.Len())
	}

	rule, ok := rs.Rule("can-view-reports")
	if !ok {
		t.Fatal("Rule(can-view-reports) not found")
	}
	if rule.Description != "Finance may view reports" {
		t.Errorf("Description = %q", rule.Description)
	}
	if rule.Expr == nil {
		t.Error("rule has no compiled expression")
	}
	if len(rs.SourceData) == 0 {
		t.Error("SourceData not retained")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("Load(missing) succeeded, want error")
	}
}

func TestFileSourceCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "invalid yaml",
			content: "ruleset: [broken",
			wantIn:  "invalid YAML",
		},
		{
			name:    "missing ruleset name",
			content: "rules:\n  - name: a\n    rule: \"x = 1\"",
			wantIn:  "missing 'ruleset' name",
		},
		{
			name:    "no rules",
			content: "ruleset: empty",
			wantIn:  "contains no rules",
		},
		{
			name: "unnamed rule",
			content: `
ruleset: test
rules:
  - rule: "x = 1"
`,
			wantIn: "has no name",
		},
		{
			name: "duplicate rule name",
			content: `
ruleset: test
rules:
  - name: a
    rule: "x = 1"
  - name: a
    rule: "x = 2"
`,
			wantIn: "duplicate rule name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeRuleSet(t, tt.content))
			_, err := src.Load(context.Background())
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("Load() error = %q, want mention of %q", err, tt.wantIn)
			}
		})
	}
}

func TestFileSourceBrokenRulesReportedTogether(t *testing.T) {
	src := NewFileSource(writeRuleSet(t, `
ruleset: test
rules:
  - name: unclosed
    rule: "country IN {DE, FR"
  - name: unbalanced
    rule: "(role = admin"
  - name: fine
    rule: "x = 1"
`))

	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("Load() succeeded, want joined compile errors")
	}

	msg := err.Error()
	if !strings.Contains(msg, "unclosed") || !strings.Contains(msg, "unbalanced") {
		t.Errorf("Load() error = %q, want both broken rules named", msg)
	}

	var compileErr *engine.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Load() error chain has no CompileError: %v", err)
	}
	if !mrlerrors.IsKind(compileErr, mrlerrors.KindUnclosedSet) && !mrlerrors.IsKind(compileErr, mrlerrors.KindMismatchedParens) {
		t.Errorf("CompileError does not wrap a syntax error kind: %v", compileErr)
	}
}

func TestFileSourceWithParserLimit(t *testing.T) {
	src := NewFileSource(writeRuleSet(t, `
ruleset: test
rules:
  - name: verbose
    rule: "department_name = finance AND resource_category = reports"
`)).WithParser(parser.NewParser().WithMaxRuleLength(16))

	_, err := src.Load(context.Background())
	if err == nil {
		t.Fatal("Load() succeeded, want rule rejected by length limit")
	}
	var compileErr *engine.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("Load() error chain has no CompileError: %v", err)
	}
	if !mrlerrors.IsKind(compileErr, mrlerrors.KindInvalidExpression) {
		t.Errorf("error kind = %q, want %q", mrlerrors.KindOf(compileErr), mrlerrors.KindInvalidExpression)
	}
}

func TestMemorySourceDeterministicOrder(t *testing.T) {
	src, err := NewMemorySource("test", "1", map[string]string{
		"c": "x = 3",
		"a": "x = 1",
		"b": "x = 2",
	})
	if err != nil {
		t.Fatalf("NewMemorySource() error = %v", err)
	}

	rs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	names := rs.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("Names() = %v, want [a b c]", names)
	}
}

func TestMemorySourceCompileError(t *testing.T) {
	if _, err := NewMemorySource("test", "1", map[string]string{"bad": "AND x = 1"}); err == nil {
		t.Error("NewMemorySource(bad rule) succeeded, want error")
	}
	if _, err := NewMemorySource("test", "1", nil); err == nil {
		t.Error("NewMemorySource(no rules) succeeded, want error")
	}
}
