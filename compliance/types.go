/*
Package compliance evaluates labor-compliance rules against canonical
worked days.

PURPOSE:
  Given a window of attendance.WorkedDay records and a tenant's compiled
  rule package, produces severity-ranked violations: not enough rest
  between shifts, missing meal breaks, daily overtime, or any custom
  predicate the tenant has configured.

KEY CONCEPTS IN THIS FILE (types.go):
  - Severity: ERROR (must fix) or WARN (advisory)
  - Violation: One finding, with remediation text and affected dates
  - Evaluator: The capability every rule implementation provides
  - CompiledRule: A tenant-owned configuration instance of an evaluator
  - PackageResult: The aggregated outcome of one evaluation call

DESIGN PRINCIPLES:
  1. Rules are looked up in an explicit registry by rule ID - no
     process-wide singletons, the caller constructs the engine it wants
  2. Parameters are concrete typed structs, decoded and validated once
     when a package is loaded, not re-cast on every evaluation
  3. Severity is a pure transform: the evaluator proposes, the package
     configuration decides; violations are never mutated in place

SEE ALSO:
  - facts.go: Derived per-day facts shared by the rules
  - rules.go: The built-in evaluators
  - engine.go: Registry and package orchestration
*/
package compliance

import (
	"context"
	"time"

	"github.com/shiftwise/attendance-engine/attendance"
)

// =============================================================================
// SEVERITY
// =============================================================================

type Severity string

const (
	SeverityError Severity = "ERROR"
	SeverityWarn  Severity = "WARN"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarn
}

// =============================================================================
// VIOLATION
// =============================================================================

// Violation is one compliance finding. Transient: produced during
// evaluation, consumed by the caller for storage or display.
type Violation struct {
	RuleID        string
	RuleName      string
	Severity      Severity
	Violation     string // what went wrong, human-readable
	Remediation   string // what to do about it
	AffectedDates []time.Time
	Details       map[string]string // rule-specific extras (hours worked, etc.)
	Citation      string            // legal citation, if any
}

// withSeverity returns a copy with the final severity applied. The
// original value is left untouched.
func (v Violation) withSeverity(s Severity) Violation {
	v.Severity = s
	return v
}

// withCitation returns a copy carrying the citation, unless the
// violation already has one.
func (v Violation) withCitation(c string) Violation {
	if v.Citation == "" {
		v.Citation = c
	}
	return v
}

// =============================================================================
// EVALUATOR - The capability every rule implementation provides
// =============================================================================

// RuleParams is the marker for a rule's typed parameter struct. Each
// built-in evaluator defines its own concrete params type; packages decode
// and validate them once at load time (see the factory package).
type RuleParams interface {
	ruleParams()
}

// EvaluationContext is the window of canonical days a package is
// evaluated against, plus the employee they belong to.
type EvaluationContext struct {
	Employee attendance.Employee
	Days     []attendance.WorkedDay
	Start    time.Time
	End      time.Time
}

// Evaluator is implemented by every rule. Evaluate receives the compiled
// parameters for this tenant (nil means use defaults) and returns the
// violations it found; the engine owns severity finalization.
//
// Evaluate takes a context.Context because a future rule may need an
// external lookup; the built-ins are pure and ignore it.
type Evaluator interface {
	RuleID() string
	Name() string
	Description() string
	DefaultSeverity() Severity

	Evaluate(ctx context.Context, ec EvaluationContext, params RuleParams) ([]Violation, error)
	ValidateParams(params RuleParams) bool
}

// =============================================================================
// COMPILED RULE - Tenant-owned configuration of an evaluator
// =============================================================================

// CompiledRule binds a rule ID to tenant configuration. Created by the
// rule compiler or by hand, persisted by the caller, and referenced here
// only at evaluation time.
type CompiledRule struct {
	RuleID         string
	Enabled        bool
	Severity       Severity // always wins over the evaluator's default
	Params         RuleParams
	Citations      []string
	Clarifications []string
}

// RulePackage is a tenant's ordered set of compiled rules.
type RulePackage struct {
	ID    string
	Rules []CompiledRule
}

// =============================================================================
// PACKAGE RESULT
// =============================================================================

// PackageResult aggregates one evaluation call. Computed fresh per call;
// not persisted by this package.
type PackageResult struct {
	RulePackageID string
	Violations    []Violation
	HasErrors     bool
	HasWarnings   bool
}
