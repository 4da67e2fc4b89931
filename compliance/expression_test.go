/*
expression_test.go - CEL predicate rule tests

Covers compile-time validation of expressions, per-day evaluation
against derived facts, and the non-boolean-result-is-false posture.
*/
package compliance_test

import (
	"context"
	"testing"

	"github.com/shiftwise/attendance-engine/attendance"
	"github.com/shiftwise/attendance-engine/compliance"
)

func newExpressionRule(t *testing.T) *compliance.ExpressionRule {
	t.Helper()
	rule, err := compliance.NewExpressionRule()
	if err != nil {
		t.Fatal(err)
	}
	return rule
}

func TestExpression_ValidateParams(t *testing.T) {
	rule := newExpressionRule(t)

	cases := []struct {
		name   string
		params compliance.RuleParams
		want   bool
	}{
		{"valid predicate", compliance.ExpressionParams{Expression: "day.workedHours > 10.0"}, true},
		{"empty expression", compliance.ExpressionParams{}, false},
		{"broken syntax", compliance.ExpressionParams{Expression: "day.workedHours >"}, false},
		{"wrong type", compliance.MinRestParams{MinimumRestHours: 11}, false},
		{"nil params", nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := rule.ValidateParams(c.params); got != c.want {
				t.Errorf("ValidateParams = %v, want %v", got, c.want)
			}
		})
	}
}

func TestExpression_MatchesPerDay(t *testing.T) {
	rule := newExpressionRule(t)

	longDay := workedDay(monday,
		punch(monday, attendance.PunchIn, 8, 0),
		punch(monday, attendance.PunchOut, 19, 0),
	)
	shortDay := workedDay(monday.AddDate(0, 0, 1),
		punch(monday.AddDate(0, 0, 1), attendance.PunchIn, 9, 0),
		punch(monday.AddDate(0, 0, 1), attendance.PunchOut, 17, 0),
	)

	// GIVEN a predicate matching only the long day
	params := compliance.ExpressionParams{
		Expression:  "day.hadPunches && day.workedHours > 10.0",
		Message:     "long day without relief",
		Remediation: "Split the shift.",
	}

	violations, err := rule.Evaluate(context.Background(), evalContext(longDay, shortDay), params)
	if err != nil {
		t.Fatal(err)
	}

	// THEN exactly the matching day yields a violation
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if !attendance.SameCalendarDay(v.AffectedDates[0], monday) {
		t.Errorf("wrong affected date: %v", v.AffectedDates)
	}
	if v.Remediation != "Split the shift." {
		t.Errorf("remediation not carried: %q", v.Remediation)
	}
}

func TestExpression_NonBooleanResultIsFalse(t *testing.T) {
	rule := newExpressionRule(t)

	day := workedDay(monday,
		punch(monday, attendance.PunchIn, 9, 0),
		punch(monday, attendance.PunchOut, 17, 0),
	)

	// GIVEN an expression that evaluates to a string
	params := compliance.ExpressionParams{Expression: "day.date"}

	violations, err := rule.Evaluate(context.Background(), evalContext(day), params)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("non-boolean results must not match, got %v", violations)
	}
}

func TestExpression_EmptyDayFacts(t *testing.T) {
	rule := newExpressionRule(t)

	// GIVEN a day with no punches and a predicate on unresolved facts
	day := workedDay(monday)
	params := compliance.ExpressionParams{Expression: "day.startTime == \"\" && !day.hadPunches"}

	violations, err := rule.Evaluate(context.Background(), evalContext(day), params)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected the empty day to match, got %d", len(violations))
	}
}
