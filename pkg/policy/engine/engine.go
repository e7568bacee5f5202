package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/themis/pkg/mrl/eval"
)

// Engine is the main interface for rule evaluation.
type Engine interface {
	// Evaluate evaluates the named rule against the input context and
	// returns a decision.
	Evaluate(ctx context.Context, ruleName string, input eval.Context) (*Decision, error)

	// Reload reloads the ruleset from the source and swaps it in
	// atomically. A failed reload leaves the current ruleset in place.
	Reload(ctx context.Context) error

	// RuleSet returns the currently loaded ruleset (for introspection).
	RuleSet() *RuleSet

	// Close shuts down the engine and releases resources.
	Close() error
}

// Source provides compiled rulesets to the engine.
type Source interface {
	// Load loads and compiles the ruleset from the source.
	Load(ctx context.Context) (*RuleSet, error)
}

// InterpreterEngine is the default Engine implementation. It holds one
// compiled ruleset at a time behind an RWMutex: evaluations take the read
// lock, reloads swap the whole set under the write lock, so in-flight
// evaluations always see a consistent ruleset.
type InterpreterEngine struct {
	// ruleset is the currently loaded ruleset
	ruleset *RuleSet

	// rulesetMu protects ruleset for concurrent access
	rulesetMu sync.RWMutex

	// source provides rulesets
	source Source

	// logger for structured logging
	logger *slog.Logger

	// closed tracks shutdown
	closed bool
	mu     sync.Mutex
}

// NewInterpreterEngine creates a rule evaluation engine and performs the
// initial ruleset load from the source.
func NewInterpreterEngine(ctx context.Context, source Source, logger *slog.Logger) (*InterpreterEngine, error) {
	if source == nil {
		return nil, fmt.Errorf("rule source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &InterpreterEngine{
		source: source,
		logger: logger.With("component", "policy.engine"),
	}

	if err := e.Reload(ctx); err != nil {
		return nil, fmt.Errorf("initial ruleset load failed: %w", err)
	}

	return e, nil
}

// Evaluate evaluates the named rule against the input context.
//
// Evaluation of the compiled tree itself never fails; the only error
// conditions are an unknown rule name, a cancelled context, or a closed
// engine.
func (e *InterpreterEngine) Evaluate(ctx context.Context, ruleName string, input eval.Context) (*Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.isClosed() {
		return nil, ErrClosed
	}

	e.rulesetMu.RLock()
	rs := e.ruleset
	e.rulesetMu.RUnlock()

	rule, ok := rs.Rule(ruleName)
	if !ok {
		return nil, &RuleNotFoundError{Name: ruleName, RuleSet: rs.Name}
	}

	start := time.Now()
	allowed := eval.Evaluate(rule.Expr, input)
	duration := time.Since(start)

	decision := &Decision{
		ID:             uuid.NewString(),
		RuleSet:        rs.Name,
		RuleSetVersion: rs.Version,
		Rule:           rule.Name,
		Allowed:        allowed,
		Context:        input,
		EvaluatedAt:    start,
		Duration:       duration,
	}

	e.logger.Debug("rule evaluated",
		"decision_id", decision.ID,
		"rule", rule.Name,
		"outcome", decision.Outcome(),
		"duration_us", duration.Microseconds(),
	)

	return decision, nil
}

// Reload reloads the ruleset from the source. On failure the previous
// ruleset stays active, so a broken edit never takes down evaluation.
func (e *InterpreterEngine) Reload(ctx context.Context) error {
	if e.isClosed() {
		return ErrClosed
	}

	rs, err := e.source.Load(ctx)
	if err != nil {
		e.logger.Error("ruleset reload failed, keeping previous ruleset", "error", err)
		return err
	}

	e.rulesetMu.Lock()
	previous := e.ruleset
	e.ruleset = rs
	e.rulesetMu.Unlock()

	attrs := []any{
		"ruleset", rs.Name,
		"version", rs.Version,
		"rules", rs.Len(),
	}
	if previous != nil {
		attrs = append(attrs, "previous_version", previous.Version)
	}
	e.logger.Info("ruleset loaded", attrs...)

	return nil
}

// RuleSet returns the currently loaded ruleset.
func (e *InterpreterEngine) RuleSet() *RuleSet {
	e.rulesetMu.RLock()
	defer e.rulesetMu.RUnlock()
	return e.ruleset
}

// Close shuts down the engine. Subsequent calls are no-ops.
func (e *InterpreterEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *InterpreterEngine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
