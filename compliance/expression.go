/*
expression.go - CEL-backed custom predicate rules

PURPOSE:
  Lets a tenant package carry ad hoc rules alongside the built-ins: a CEL
  expression evaluated once per worked day against that day's derived
  facts. Any day where the predicate is true yields one violation.

DAY FACTS:
  day.date          "YYYY-MM-DD"
  day.scheduled     bool - a shift was scheduled
  day.hadPunches    bool
  day.startTime     "HH:MM" actual, "" when unresolved
  day.endTime       "HH:MM" actual, "" when unresolved
  day.workedHours   float - shift minus breaks, 0 when unresolved
  day.breakMinutes  int

  Example: day.hadPunches && day.workedHours > 10.0 && day.breakMinutes < 45

COMPILATION:
  Expressions are compiled with type checking and a cost limit, and the
  compiled program is cached per expression. A non-boolean result is
  treated as false; an evaluation error surfaces to the engine, which
  logs it and drops the rule's contribution for this call.
*/
package compliance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/shiftwise/attendance-engine/attendance"
)

// RuleExpression identifies the custom predicate evaluator.
const RuleExpression = "CUSTOM_EXPRESSION"

// celCostLimit bounds expression evaluation to prevent runaway tenant
// expressions from stalling a package run.
const celCostLimit = 1_000_000

// ExpressionParams configures one custom predicate rule.
type ExpressionParams struct {
	Expression  string
	Message     string // violation text; the matching date is appended
	Remediation string
}

func (ExpressionParams) ruleParams() {}

// ExpressionRule evaluates a tenant-authored CEL predicate per day.
type ExpressionRule struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program // expression -> compiled program
}

// NewExpressionRule builds the CEL environment for day facts.
func NewExpressionRule() (*ExpressionRule, error) {
	env, err := cel.NewEnv(
		cel.Variable("day", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &ExpressionRule{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

func (*ExpressionRule) RuleID() string            { return RuleExpression }
func (*ExpressionRule) Name() string              { return "Custom Expression" }
func (*ExpressionRule) DefaultSeverity() Severity { return SeverityWarn }
func (*ExpressionRule) Description() string {
	return "Evaluates a tenant-configured CEL predicate against each worked day's derived facts."
}

// ValidateParams compiles the expression, so a package carrying a broken
// predicate is rejected once at load time instead of failing every day.
func (r *ExpressionRule) ValidateParams(params RuleParams) bool {
	p, ok := params.(ExpressionParams)
	if !ok || p.Expression == "" {
		return false
	}
	_, err := r.program(p.Expression)
	return err == nil
}

func (r *ExpressionRule) Evaluate(_ context.Context, ec EvaluationContext, params RuleParams) ([]Violation, error) {
	p, ok := params.(ExpressionParams)
	if !ok {
		return nil, fmt.Errorf("expression rule requires ExpressionParams")
	}

	prog, err := r.program(p.Expression)
	if err != nil {
		return nil, err
	}

	message := p.Message
	if message == "" {
		message = fmt.Sprintf("custom rule matched: %s", p.Expression)
	}

	var violations []Violation
	for _, day := range ec.Days {
		out, _, err := prog.Eval(map[string]any{"day": dayFacts(day)})
		if err != nil {
			return nil, fmt.Errorf("expression evaluation failed on %s: %w",
				day.Date.Format("2006-01-02"), err)
		}

		matched, _ := out.Value().(bool) // non-boolean results are false
		if matched {
			violations = append(violations, Violation{
				RuleID:        r.RuleID(),
				RuleName:      r.Name(),
				Severity:      r.DefaultSeverity(),
				Violation:     fmt.Sprintf("%s on %s", message, day.Date.Format("2006-01-02")),
				Remediation:   p.Remediation,
				AffectedDates: []time.Time{day.Date},
			})
		}
	}

	return violations, nil
}

// program returns the cached compiled program for an expression,
// compiling it on first use.
func (r *ExpressionRule) program(expression string) (cel.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prog, ok := r.programs[expression]; ok {
		return prog, nil
	}

	ast, issues := r.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := r.env.Program(ast, cel.CostLimit(celCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	r.programs[expression] = prog
	return prog, nil
}

// dayFacts flattens a worked day into the map CEL evaluates against.
func dayFacts(day attendance.WorkedDay) map[string]any {
	facts := map[string]any{
		"date":         day.Date.Format("2006-01-02"),
		"scheduled":    day.ScheduledShift != nil,
		"hadPunches":   HadPunches(day),
		"startTime":    "",
		"endTime":      "",
		"workedHours":  0.0,
		"breakMinutes": ActualBreakMinutes(day),
	}

	if start, end, ok := ActualShiftTimes(day); ok {
		facts["startTime"] = start
		facts["endTime"] = end
		worked := attendance.MinutesBetween(start, end) - ActualBreakMinutes(day)
		facts["workedHours"] = float64(worked) / 60
	}

	return facts
}
