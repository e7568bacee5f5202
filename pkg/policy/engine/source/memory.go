package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"mercator-hq/themis/pkg/mrl/parser"
	"mercator-hq/themis/pkg/policy/engine"
)

// MemorySource serves a ruleset compiled from in-memory rule text.
// It is primarily useful for tests and embedded callers that do not load
// rules from files.
type MemorySource struct {
	ruleset *engine.RuleSet
}

// NewMemorySource compiles the given rules (name -> MRL rule text) into a
// ruleset. Rules are ordered by name for determinism.
func NewMemorySource(name, version string, rules map[string]string) (*MemorySource, error) {
	p := parser.NewParser()

	names := make([]string, 0, len(rules))
	for n := range rules {
		names = append(names, n)
	}
	sort.Strings(names)

	var compileErrs []error
	compiled := make([]*engine.Rule, 0, len(rules))
	for _, n := range names {
		expr, err := p.Parse(rules[n])
		if err != nil {
			compileErrs = append(compileErrs, &engine.CompileError{Rule: n, Err: err})
			continue
		}
		compiled = append(compiled, &engine.Rule{Name: n, Source: rules[n], Expr: expr})
	}
	if len(compileErrs) > 0 {
		return nil, errors.Join(compileErrs...)
	}
	if len(compiled) == 0 {
		return nil, fmt.Errorf("ruleset %q contains no rules", name)
	}

	return &MemorySource{ruleset: engine.NewRuleSet(name, version, compiled)}, nil
}

// Load returns the compiled ruleset.
func (s *MemorySource) Load(ctx context.Context) (*engine.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.ruleset, nil
}
