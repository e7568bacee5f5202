package parser

import (
	"fmt"

	"mercator-hq/themis/pkg/mrl/ast"
	mrlerrors "mercator-hq/themis/pkg/mrl/errors"
	"mercator-hq/themis/pkg/mrl/lexer"
)

// Parser compiles MRL rule strings into expression trees.
// The zero-configuration parser from NewParser is suitable for almost all
// callers; limits exist to protect long-running services from pathological
// rule inputs.
type Parser struct {
	// maxRuleLength is the maximum rule length in bytes (default: 64KB).
	maxRuleLength int
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxRuleLength: 64 * 1024,
	}
}

// WithMaxRuleLength sets the maximum accepted rule length in bytes.
func (p *Parser) WithMaxRuleLength(n int) *Parser {
	p.maxRuleLength = n
	return p
}

// Parse compiles a rule string into an immutable expression tree.
//
// Parsing is deterministic: the same rule text always yields a structurally
// identical tree or the same typed error. Callers evaluating a rule many
// times should parse once and reuse the tree.
func (p *Parser) Parse(rule string) (*ast.Expr, error) {
	if len(rule) > p.maxRuleLength {
		return nil, mrlerrors.New(mrlerrors.KindInvalidExpression,
			fmt.Sprintf("rule length %d exceeds maximum %d bytes", len(rule), p.maxRuleLength))
	}

	tokens, err := lexer.Tokenize(rule)
	if err != nil {
		return nil, err
	}

	postfix, err := ToPostfix(tokens)
	if err != nil {
		return nil, err
	}

	return BuildAST(postfix)
}
