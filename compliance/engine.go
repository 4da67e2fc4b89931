/*
engine.go - Rule registry and package orchestration

PURPOSE:
  Holds the ruleID -> Evaluator registry and runs a tenant's compiled
  rule package against an evaluation context. The engine is explicitly
  constructed by the caller - there is no process-wide singleton.

FAILURE POSTURE:
  One bad rule must never abort the package. Every per-rule failure -
  unregistered rule ID, rejected params, an evaluator returning an error
  or panicking - is logged and treated as "this rule contributes no
  violations". Evaluate always returns a structurally valid result.

SEVERITY AND CITATIONS:
  After a rule runs, each violation is post-processed into a new value:
  the compiled rule's severity unconditionally replaces the evaluator's
  proposal, and the package's first citation is attached when the
  violation carries none. HasErrors/HasWarnings are computed from the
  final severities.

ORDERING:
  Rules run sequentially in package order. The built-ins are pure and
  could run concurrently; sequential is a simplicity choice, not a
  correctness requirement.

SEE ALSO:
  - rules.go: The built-in evaluators
  - factory: Package decoding
*/
package compliance

import (
	"context"
	"fmt"
	"log/slog"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the rule registry plus the package evaluation orchestrator.
type Engine struct {
	rules  map[string]Evaluator
	order  []string
	logger *slog.Logger
}

// NewEngine creates an empty engine. A nil logger defaults to slog's
// package default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		rules:  make(map[string]Evaluator),
		logger: logger,
	}
}

// NewDefaultEngine creates an engine with the built-in rules registered.
func NewDefaultEngine(logger *slog.Logger) *Engine {
	e := NewEngine(logger)
	e.RegisterRules(
		MinRestRule{},
		MealBreakRule{},
		OvertimeRule{},
	)
	return e
}

// RegisterRule adds or replaces an evaluator keyed by its rule ID.
func (e *Engine) RegisterRule(r Evaluator) {
	if _, exists := e.rules[r.RuleID()]; !exists {
		e.order = append(e.order, r.RuleID())
	}
	e.rules[r.RuleID()] = r
}

// RegisterRules registers several evaluators at once.
func (e *Engine) RegisterRules(rs ...Evaluator) {
	for _, r := range rs {
		e.RegisterRule(r)
	}
}

// Rule returns the evaluator for a rule ID, if registered.
func (e *Engine) Rule(ruleID string) (Evaluator, bool) {
	r, ok := e.rules[ruleID]
	return r, ok
}

// AllRules returns the registered evaluators in registration order.
func (e *Engine) AllRules() []Evaluator {
	out := make([]Evaluator, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.rules[id])
	}
	return out
}

// =============================================================================
// PACKAGE EVALUATION
// =============================================================================

// PackageInput is one evaluation call: a compiled package and the context
// to evaluate it against.
type PackageInput struct {
	Package RulePackage
	Context EvaluationContext
}

// Evaluate runs the package's compiled rules in order and aggregates the
// result. It never fails because of a rule: the worst outcome is an
// incomplete (but structurally valid) violation list.
func (e *Engine) Evaluate(ctx context.Context, input PackageInput) PackageResult {
	result := PackageResult{RulePackageID: input.Package.ID}

	for _, compiled := range input.Package.Rules {
		if !compiled.Enabled {
			continue
		}

		impl, ok := e.rules[compiled.RuleID]
		if !ok {
			e.logger.Warn("skipping unregistered rule",
				"rule_id", compiled.RuleID,
				"package_id", input.Package.ID)
			continue
		}

		if !impl.ValidateParams(compiled.Params) {
			e.logger.Warn("skipping rule with invalid params",
				"rule_id", compiled.RuleID,
				"package_id", input.Package.ID)
			continue
		}

		violations, err := e.evaluateRule(ctx, impl, input.Context, compiled.Params)
		if err != nil {
			e.logger.Error("rule evaluation failed, contributing no violations",
				"rule_id", compiled.RuleID,
				"package_id", input.Package.ID,
				"error", err)
			continue
		}

		for _, v := range violations {
			v = v.withSeverity(compiled.Severity)
			if len(compiled.Citations) > 0 {
				v = v.withCitation(compiled.Citations[0])
			}
			result.Violations = append(result.Violations, v)
		}
	}

	for _, v := range result.Violations {
		switch v.Severity {
		case SeverityError:
			result.HasErrors = true
		case SeverityWarn:
			result.HasWarnings = true
		}
	}

	return result
}

// evaluateRule calls a single evaluator, converting panics into errors so
// a misbehaving rule cannot take down the package.
func (e *Engine) evaluateRule(
	ctx context.Context,
	impl Evaluator,
	ec EvaluationContext,
	params RuleParams,
) (violations []Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			violations = nil
			err = fmt.Errorf("rule %s panicked: %v", impl.RuleID(), r)
		}
	}()

	return impl.Evaluate(ctx, ec, params)
}
