package engine

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on an engine that has been closed.
var ErrClosed = errors.New("engine is closed")

// RuleNotFoundError is returned when an evaluation names a rule that does
// not exist in the loaded ruleset.
type RuleNotFoundError struct {
	// Name is the requested rule name.
	Name string

	// RuleSet is the name of the ruleset that was searched.
	RuleSet string
}

// Error implements the error interface.
func (e *RuleNotFoundError) Error() string {
	return fmt.Sprintf("rule %q not found in ruleset %q", e.Name, e.RuleSet)
}

// IsRuleNotFound reports whether err is (or wraps) a RuleNotFoundError.
func IsRuleNotFound(err error) bool {
	var rnf *RuleNotFoundError
	return errors.As(err, &rnf)
}

// CompileError describes a rule that failed to compile while a ruleset
// was loading. Sources aggregate one CompileError per failing rule with
// errors.Join, so a single load reports every broken rule at once.
type CompileError struct {
	// Rule is the name of the rule that failed to compile.
	Rule string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// CompileErrorCount counts the CompileErrors in err's tree, descending
// through both wrapped and joined errors. Used to report one parse error
// per broken rule when a ruleset load fails.
func CompileErrorCount(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*CompileError); ok {
		return 1
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		n := 0
		for _, e := range wrapped.Unwrap() {
			n += CompileErrorCount(e)
		}
		return n
	case interface{ Unwrap() error }:
		return CompileErrorCount(wrapped.Unwrap())
	}
	return 0
}
