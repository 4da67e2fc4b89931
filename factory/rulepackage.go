/*
Package factory provides JSON to Go rule-package conversion.

PURPOSE:
  Converts JSON rule-package definitions into compliance.RulePackage
  values with concrete, validated parameter structs. This is the single
  place where the untyped params map is decoded - the engine and the
  evaluators only ever see typed params, decoded ONCE at load time, not
  re-cast on every evaluation.

WHY JSON?
  - Rule packages are authored by a compiler service or by admins
  - Easy database storage and versioning of tenant configurations
  - The admin UI edits packages without code changes

JSON SCHEMA:
  {
    "id": "pkg-ca-hospitality",
    "rules": [
      {
        "rule_id": "MEAL_BREAK_REQUIRED",
        "enabled": true,
        "severity": "ERROR",
        "params": {"minimum_shift_hours": 5, "minimum_break_minutes": 30},
        "citations": ["Labor Code 512(a)"],
        "clarifications": ["Applies to non-exempt staff only"]
      }
    ]
  }

KEY FEATURES:
  - Per-rule typed parameter structs with defaults applied at parse time
  - Severity defaulted from the rule's registered implementation
  - Unknown rule IDs pass through with nil params; the engine logs and
    skips them at evaluation time rather than failing the whole package

USAGE:
  f := factory.NewRuleFactory()
  pkg, err := f.ParsePackage(configJSON)
  result := engine.Evaluate(ctx, compliance.PackageInput{Package: pkg, ...})

SEE ALSO:
  - compliance/types.go: CompiledRule, RuleParams
  - compliance/engine.go: Evaluation-time skip semantics
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shiftwise/attendance-engine/compliance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PackageJSON is the JSON representation of a rule package.
type PackageJSON struct {
	ID    string     `json:"id"`
	Rules []RuleJSON `json:"rules"`
}

// RuleJSON is one compiled rule inside a package.
type RuleJSON struct {
	RuleID         string          `json:"rule_id"`
	Enabled        bool            `json:"enabled"`
	Severity       string          `json:"severity,omitempty"`
	Params         json.RawMessage `json:"params,omitempty"`
	Citations      []string        `json:"citations,omitempty"`
	Clarifications []string        `json:"clarifications,omitempty"`
}

// minRestJSON etc. mirror the per-rule params maps emitted by the rule
// compiler. Zero values mean "use the rule default".

type minRestJSON struct {
	MinimumRestHours float64 `json:"minimum_rest_hours"`
}

type mealBreakJSON struct {
	MinimumShiftHours   float64 `json:"minimum_shift_hours"`
	MinimumBreakMinutes int     `json:"minimum_break_minutes"`
}

type overtimeJSON struct {
	DailyOvertimeThreshold float64 `json:"daily_overtime_threshold"`
}

type expressionJSON struct {
	Expression  string `json:"expression"`
	Message     string `json:"message"`
	Remediation string `json:"remediation"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rule packages to compliance values.
type RuleFactory struct{}

// NewRuleFactory creates a new rule factory.
func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParsePackage parses a JSON string into a RulePackage with typed,
// defaulted params.
func (f *RuleFactory) ParsePackage(jsonStr string) (compliance.RulePackage, error) {
	var pj PackageJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return compliance.RulePackage{}, fmt.Errorf("failed to parse package JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PackageJSON to a compliance.RulePackage.
func (f *RuleFactory) FromJSON(pj PackageJSON) (compliance.RulePackage, error) {
	if pj.ID == "" {
		return compliance.RulePackage{}, fmt.Errorf("package id is required")
	}

	pkg := compliance.RulePackage{ID: pj.ID}
	for i, rj := range pj.Rules {
		compiled, err := f.parseRule(rj)
		if err != nil {
			return compliance.RulePackage{}, fmt.Errorf("rule %d (%s): %w", i, rj.RuleID, err)
		}
		pkg.Rules = append(pkg.Rules, compiled)
	}

	return pkg, nil
}

func (f *RuleFactory) parseRule(rj RuleJSON) (compliance.CompiledRule, error) {
	if rj.RuleID == "" {
		return compliance.CompiledRule{}, fmt.Errorf("rule_id is required")
	}

	severity, err := parseSeverity(rj.Severity, rj.RuleID)
	if err != nil {
		return compliance.CompiledRule{}, err
	}

	params, err := parseParams(rj.RuleID, rj.Params)
	if err != nil {
		return compliance.CompiledRule{}, err
	}

	return compliance.CompiledRule{
		RuleID:         rj.RuleID,
		Enabled:        rj.Enabled,
		Severity:       severity,
		Params:         params,
		Citations:      rj.Citations,
		Clarifications: rj.Clarifications,
	}, nil
}

// parseSeverity resolves the final severity at load time: explicit package
// value first, then the rule's default, then ERROR for unknown rules (the
// conservative choice for a rule we can't ask).
func parseSeverity(raw, ruleID string) (compliance.Severity, error) {
	if raw != "" {
		s := compliance.Severity(raw)
		if !s.Valid() {
			return "", fmt.Errorf("unknown severity %q", raw)
		}
		return s, nil
	}

	switch ruleID {
	case compliance.RuleOvertime, compliance.RuleExpression:
		return compliance.SeverityWarn, nil
	default:
		return compliance.SeverityError, nil
	}
}

// parseParams decodes the params map into the rule's concrete struct.
// Unknown rule IDs keep nil params; the engine skips them gracefully.
func parseParams(ruleID string, raw json.RawMessage) (compliance.RuleParams, error) {
	if len(raw) == 0 {
		if ruleID == compliance.RuleExpression {
			return nil, fmt.Errorf("expression rule requires params")
		}
		return nil, nil
	}

	switch ruleID {
	case compliance.RuleMinRest:
		var j minRestJSON
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if j.MinimumRestHours == 0 {
			j.MinimumRestHours = compliance.DefaultMinimumRestHours
		}
		if j.MinimumRestHours < 0 {
			return nil, fmt.Errorf("minimum_rest_hours must be positive")
		}
		return compliance.MinRestParams{MinimumRestHours: j.MinimumRestHours}, nil

	case compliance.RuleMealBreak:
		var j mealBreakJSON
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if j.MinimumShiftHours == 0 {
			j.MinimumShiftHours = compliance.DefaultMinimumShiftHours
		}
		if j.MinimumBreakMinutes == 0 {
			j.MinimumBreakMinutes = compliance.DefaultMinimumBreakMinutes
		}
		if j.MinimumShiftHours < 0 || j.MinimumBreakMinutes < 0 {
			return nil, fmt.Errorf("meal break thresholds must be positive")
		}
		return compliance.MealBreakParams{
			MinimumShiftHours:   j.MinimumShiftHours,
			MinimumBreakMinutes: j.MinimumBreakMinutes,
		}, nil

	case compliance.RuleOvertime:
		var j overtimeJSON
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if j.DailyOvertimeThreshold == 0 {
			j.DailyOvertimeThreshold = compliance.DefaultDailyOvertimeThreshold
		}
		if j.DailyOvertimeThreshold < 0 {
			return nil, fmt.Errorf("daily_overtime_threshold must be positive")
		}
		return compliance.OvertimeParams{DailyOvertimeThreshold: j.DailyOvertimeThreshold}, nil

	case compliance.RuleExpression:
		var j expressionJSON
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		if j.Expression == "" {
			return nil, fmt.Errorf("expression is required")
		}
		return compliance.ExpressionParams{
			Expression:  j.Expression,
			Message:     j.Message,
			Remediation: j.Remediation,
		}, nil

	default:
		// Unknown rule: keep the package loadable, let the engine skip it.
		return nil, nil
	}
}
