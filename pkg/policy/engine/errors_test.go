package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"mercator-hq/themis/pkg/policy/engine"
)

func TestCompileErrorCount(t *testing.T) {
	broken := func(name string) error {
		return &engine.CompileError{Rule: name, Err: errors.New("bad expression")}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"unrelated", errors.New("disk full"), 0},
		{"single", broken("a"), 1},
		{"wrapped", fmt.Errorf("ruleset file: %w", broken("a")), 1},
		{"joined", errors.Join(broken("a"), broken("b"), errors.New("other")), 2},
		{"wrapped join", fmt.Errorf("load: %w", errors.Join(broken("a"), broken("b"), broken("c"))), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.CompileErrorCount(tt.err); got != tt.want {
				t.Errorf("CompileErrorCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
