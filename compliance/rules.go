/*
rules.go - Built-in rule evaluators

PURPOSE:
  The three built-in labor rules every tenant starts from:

  MIN_REST_BETWEEN_SHIFTS  Not enough hours between one worked day's end
                           and the next worked day's start (default 11h)
  MEAL_BREAK_REQUIRED      Shifts at or over a length threshold must carry
                           a minimum break (default 5h / 30min)
  DAILY_OVERTIME           More hours worked in a day than the daily
                           threshold (default 8h, advisory)

  Each rule has a concrete parameter struct. Nil params mean defaults.
  Evaluators are pure: same days in, same violations out, no I/O.

SEVERITY:
  Each rule declares a default severity, but the package configuration
  always wins - the engine applies the compiled rule's severity to every
  violation before aggregation.

SEE ALSO:
  - facts.go: Where actual shift times and break minutes come from
  - engine.go: Orchestration, severity finalization
  - factory: Decoding params from package JSON
*/
package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise/attendance-engine/attendance"
)

// Built-in rule identifiers.
const (
	RuleMinRest   = "MIN_REST_BETWEEN_SHIFTS"
	RuleMealBreak = "MEAL_BREAK_REQUIRED"
	RuleOvertime  = "DAILY_OVERTIME"
)

// Defaults applied when a compiled rule carries no params.
const (
	DefaultMinimumRestHours       = 11
	DefaultMinimumShiftHours      = 5
	DefaultMinimumBreakMinutes    = 30
	DefaultDailyOvertimeThreshold = 8
)

// =============================================================================
// MIN_REST_BETWEEN_SHIFTS
// =============================================================================

// MinRestParams configures the minimum-rest rule.
type MinRestParams struct {
	MinimumRestHours float64
}

func (MinRestParams) ruleParams() {}

// MinRestRule flags consecutive worked days whose gap is under the
// minimum rest period. "Consecutive" means consecutive in the sequence of
// days that actually had punches - not necessarily adjacent calendar days.
type MinRestRule struct{}

func (MinRestRule) RuleID() string            { return RuleMinRest }
func (MinRestRule) Name() string              { return "Minimum Rest Between Shifts" }
func (MinRestRule) DefaultSeverity() Severity { return SeverityError }
func (MinRestRule) Description() string {
	return "Requires a minimum number of hours of rest between the end of one worked shift and the start of the next."
}

func (MinRestRule) ValidateParams(params RuleParams) bool {
	if params == nil {
		return true
	}
	p, ok := params.(MinRestParams)
	return ok && p.MinimumRestHours > 0
}

func (r MinRestRule) Evaluate(_ context.Context, ec EvaluationContext, params RuleParams) ([]Violation, error) {
	minimumRestHours := float64(DefaultMinimumRestHours)
	if p, ok := params.(MinRestParams); ok && p.MinimumRestHours > 0 {
		minimumRestHours = p.MinimumRestHours
	}
	minimumRestMinutes := int(minimumRestHours * 60)

	// Worked days with resolvable actual times, order preserved.
	type workedEntry struct {
		date       time.Time
		start, end string
	}
	var worked []workedEntry
	for _, day := range ec.Days {
		if !HadPunches(day) {
			continue
		}
		start, end, ok := ActualShiftTimes(day)
		if !ok {
			continue
		}
		worked = append(worked, workedEntry{date: day.Date, start: start, end: end})
	}

	var violations []Violation
	for i := 0; i+1 < len(worked); i++ {
		this, next := worked[i], worked[i+1]

		dayDelta := calendarDayDelta(this.date, next.date)
		restMinutes := dayDelta*24*60 +
			attendance.MinuteOfDay(next.start) - attendance.MinuteOfDay(this.end)

		if restMinutes < minimumRestMinutes {
			restHours := decimal.NewFromInt(int64(restMinutes)).Div(decimal.NewFromInt(60))
			violations = append(violations, Violation{
				RuleID:   r.RuleID(),
				RuleName: r.Name(),
				Severity: r.DefaultSeverity(),
				Violation: fmt.Sprintf("only %s hours of rest between shift ending %s on %s and shift starting %s on %s (minimum %.0f)",
					restHours.StringFixed(1), this.end, this.date.Format("2006-01-02"),
					next.start, next.date.Format("2006-01-02"), minimumRestHours),
				Remediation:   fmt.Sprintf("Adjust the schedule so at least %.0f hours separate consecutive shifts.", minimumRestHours),
				AffectedDates: []time.Time{this.date, next.date},
				Details: map[string]string{
					"restHours": restHours.StringFixed(2),
				},
			})
		}
	}

	return violations, nil
}

// =============================================================================
// MEAL_BREAK_REQUIRED
// =============================================================================

// MealBreakParams configures the meal-break rule.
type MealBreakParams struct {
	MinimumShiftHours   float64
	MinimumBreakMinutes int
}

func (MealBreakParams) ruleParams() {}

// MealBreakRule flags days where a long-enough shift carried less than
// the required break time.
type MealBreakRule struct{}

func (MealBreakRule) RuleID() string            { return RuleMealBreak }
func (MealBreakRule) Name() string              { return "Meal Break Required" }
func (MealBreakRule) DefaultSeverity() Severity { return SeverityError }
func (MealBreakRule) Description() string {
	return "Shifts at or over a duration threshold must include a minimum meal break."
}

func (MealBreakRule) ValidateParams(params RuleParams) bool {
	if params == nil {
		return true
	}
	p, ok := params.(MealBreakParams)
	return ok && p.MinimumShiftHours > 0 && p.MinimumBreakMinutes > 0
}

func (r MealBreakRule) Evaluate(_ context.Context, ec EvaluationContext, params RuleParams) ([]Violation, error) {
	minimumShiftHours := float64(DefaultMinimumShiftHours)
	minimumBreakMinutes := DefaultMinimumBreakMinutes
	if p, ok := params.(MealBreakParams); ok {
		if p.MinimumShiftHours > 0 {
			minimumShiftHours = p.MinimumShiftHours
		}
		if p.MinimumBreakMinutes > 0 {
			minimumBreakMinutes = p.MinimumBreakMinutes
		}
	}

	var violations []Violation
	for _, day := range ec.Days {
		if !HadPunches(day) {
			continue
		}
		start, end, ok := ActualShiftTimes(day)
		if !ok {
			continue
		}

		shiftMinutes := attendance.MinutesBetween(start, end)
		if float64(shiftMinutes) < minimumShiftHours*60 {
			continue
		}

		taken := ActualBreakMinutes(day)
		if taken < minimumBreakMinutes {
			shiftHours := decimal.NewFromInt(int64(shiftMinutes)).Div(decimal.NewFromInt(60))
			violations = append(violations, Violation{
				RuleID:   r.RuleID(),
				RuleName: r.Name(),
				Severity: r.DefaultSeverity(),
				Violation: fmt.Sprintf("%s hour shift on %s had only %d break minutes (minimum %d)",
					shiftHours.StringFixed(1), day.Date.Format("2006-01-02"), taken, minimumBreakMinutes),
				Remediation:   fmt.Sprintf("Ensure shifts of %.0f hours or more include at least %d minutes of break.", minimumShiftHours, minimumBreakMinutes),
				AffectedDates: []time.Time{day.Date},
				Details: map[string]string{
					"shiftHours":   shiftHours.StringFixed(2),
					"breakMinutes": fmt.Sprintf("%d", taken),
				},
			})
		}
	}

	return violations, nil
}

// =============================================================================
// DAILY_OVERTIME
// =============================================================================

// OvertimeParams configures the daily-overtime rule.
type OvertimeParams struct {
	DailyOvertimeThreshold float64
}

func (OvertimeParams) ruleParams() {}

// OvertimeRule flags days where worked hours (shift minus breaks) exceed
// the daily threshold. Advisory by default.
type OvertimeRule struct{}

func (OvertimeRule) RuleID() string            { return RuleOvertime }
func (OvertimeRule) Name() string              { return "Daily Overtime" }
func (OvertimeRule) DefaultSeverity() Severity { return SeverityWarn }
func (OvertimeRule) Description() string {
	return "Flags days where hours worked exceed the daily overtime threshold."
}

func (OvertimeRule) ValidateParams(params RuleParams) bool {
	if params == nil {
		return true
	}
	p, ok := params.(OvertimeParams)
	return ok && p.DailyOvertimeThreshold > 0
}

func (r OvertimeRule) Evaluate(_ context.Context, ec EvaluationContext, params RuleParams) ([]Violation, error) {
	threshold := decimal.NewFromFloat(DefaultDailyOvertimeThreshold)
	if p, ok := params.(OvertimeParams); ok && p.DailyOvertimeThreshold > 0 {
		threshold = decimal.NewFromFloat(p.DailyOvertimeThreshold)
	}

	var violations []Violation
	for _, day := range ec.Days {
		if !HadPunches(day) {
			continue
		}
		start, end, ok := ActualShiftTimes(day)
		if !ok {
			continue
		}

		workedMinutes := attendance.MinutesBetween(start, end) - ActualBreakMinutes(day)
		hoursWorked := decimal.NewFromInt(int64(workedMinutes)).Div(decimal.NewFromInt(60))

		if hoursWorked.GreaterThan(threshold) {
			overtime := hoursWorked.Sub(threshold)
			violations = append(violations, Violation{
				RuleID:   r.RuleID(),
				RuleName: r.Name(),
				Severity: r.DefaultSeverity(),
				Violation: fmt.Sprintf("%s hours worked on %s exceeds the daily threshold of %s",
					hoursWorked.StringFixed(1), day.Date.Format("2006-01-02"), threshold.StringFixed(1)),
				Remediation:   "Review scheduling to keep daily hours under the overtime threshold, or record the overtime for payroll.",
				AffectedDates: []time.Time{day.Date},
				Details: map[string]string{
					"hoursWorked":   hoursWorked.StringFixed(2),
					"overtimeHours": overtime.StringFixed(2),
				},
			})
		}
	}

	return violations, nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// calendarDayDelta counts whole calendar days from a to b.
func calendarDayDelta(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
