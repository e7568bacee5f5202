package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"mercator-hq/themis/pkg/mrl/parser"
	"mercator-hq/themis/pkg/policy/engine"
)

// ruleSetFile mirrors the YAML layout of a ruleset file:
//
//	ruleset: access-control
//	version: "1.0.0"
//	rules:
//	  - name: can-view-reports
//	    description: Finance may view reports
//	    rule: "(role=admin) OR (dept=finance AND resource=reports)"
type ruleSetFile struct {
	RuleSet string     `yaml:"ruleset"`
	Version string     `yaml:"version"`
	Rules   []ruleFile `yaml:"rules"`
}

type ruleFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Rule        string `yaml:"rule"`
}

// FileSource loads a ruleset from a YAML file, compiling every rule with
// the MRL parser. All broken rules in a file are reported together in a
// single joined error.
type FileSource struct {
	path   string
	parser *parser.Parser
}

// NewFileSource creates a source reading from the given ruleset file.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		parser: parser.NewParser(),
	}
}

// WithParser replaces the rule parser, letting callers apply limits such
// as parser.WithMaxRuleLength.
func (s *FileSource) WithParser(p *parser.Parser) *FileSource {
	s.parser = p
	return s
}

// Path returns the file path the source reads from.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads, parses, and compiles the ruleset file.
func (s *FileSource) Load(ctx context.Context) (*engine.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file %q: %w", s.path, err)
	}

	rs, err := compile(s.parser, data)
	if err != nil {
		return nil, fmt.Errorf("ruleset file %q: %w", s.path, err)
	}
	rs.SourceData = data
	return rs, nil
}

// compile unmarshals ruleset YAML and compiles every rule.
func compile(p *parser.Parser, data []byte) (*engine.RuleSet, error) {
	var file ruleSetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if file.RuleSet == "" {
		return nil, fmt.Errorf("missing 'ruleset' name")
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("ruleset %q contains no rules", file.RuleSet)
	}

	var compileErrs []error
	seen := make(map[string]bool, len(file.Rules))
	rules := make([]*engine.Rule, 0, len(file.Rules))

	for i, rf := range file.Rules {
		name := strings.TrimSpace(rf.Name)
		if name == "" {
			compileErrs = append(compileErrs, fmt.Errorf("rule #%d has no name", i+1))
			continue
		}
		if seen[name] {
			compileErrs = append(compileErrs, fmt.Errorf("duplicate rule name %q", name))
			continue
		}
		seen[name] = true

		expr, err := p.Parse(rf.Rule)
		if err != nil {
			compileErrs = append(compileErrs, &engine.CompileError{Rule: name, Err: err})
			continue
		}

		rules = append(rules, &engine.Rule{
			Name:        name,
			Description: rf.Description,
			Source:      rf.Rule,
			Expr:        expr,
		})
	}

	if len(compileErrs) > 0 {
		return nil, errors.Join(compileErrs...)
	}

	return engine.NewRuleSet(file.RuleSet, file.Version, rules), nil
}
