/*
rulepackage_test.go - JSON package decoding tests

Covers default filling, severity resolution order (explicit, then rule
default, then conservative ERROR), and the unknown-rule passthrough.
*/
package factory_test

import (
	"testing"

	"github.com/shiftwise/attendance-engine/compliance"
	"github.com/shiftwise/attendance-engine/factory"
)

func TestParsePackage_TypedParamsWithDefaults(t *testing.T) {
	// GIVEN a package where meal break params omit the break minutes
	jsonStr := `{
		"id": "pkg-ca",
		"rules": [
			{
				"rule_id": "MEAL_BREAK_REQUIRED",
				"enabled": true,
				"severity": "ERROR",
				"params": {"minimum_shift_hours": 6},
				"citations": ["Labor Code 512(a)"]
			}
		]
	}`

	pkg, err := factory.NewRuleFactory().ParsePackage(jsonStr)
	if err != nil {
		t.Fatal(err)
	}

	if pkg.ID != "pkg-ca" || len(pkg.Rules) != 1 {
		t.Fatalf("unexpected package shape: %+v", pkg)
	}

	// THEN the missing field is filled from the rule default
	params, ok := pkg.Rules[0].Params.(compliance.MealBreakParams)
	if !ok {
		t.Fatalf("params type = %T", pkg.Rules[0].Params)
	}
	if params.MinimumShiftHours != 6 || params.MinimumBreakMinutes != compliance.DefaultMinimumBreakMinutes {
		t.Errorf("params = %+v", params)
	}
	if len(pkg.Rules[0].Citations) != 1 {
		t.Errorf("citations not carried: %v", pkg.Rules[0].Citations)
	}
}

func TestParsePackage_NoParamsMeansDefaults(t *testing.T) {
	jsonStr := `{"id": "pkg-1", "rules": [
		{"rule_id": "MIN_REST_BETWEEN_SHIFTS", "enabled": true}
	]}`

	pkg, err := factory.NewRuleFactory().ParsePackage(jsonStr)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Rules[0].Params != nil {
		t.Errorf("absent params should stay nil (evaluator defaults), got %+v", pkg.Rules[0].Params)
	}
}

func TestParsePackage_SeverityResolution(t *testing.T) {
	cases := []struct {
		name     string
		ruleJSON string
		want     compliance.Severity
	}{
		{
			"explicit severity wins",
			`{"rule_id": "DAILY_OVERTIME", "enabled": true, "severity": "ERROR"}`,
			compliance.SeverityError,
		},
		{
			"overtime defaults to WARN",
			`{"rule_id": "DAILY_OVERTIME", "enabled": true}`,
			compliance.SeverityWarn,
		},
		{
			"min rest defaults to ERROR",
			`{"rule_id": "MIN_REST_BETWEEN_SHIFTS", "enabled": true}`,
			compliance.SeverityError,
		},
		{
			"unknown rule defaults to ERROR",
			`{"rule_id": "SOMETHING_NEW", "enabled": true}`,
			compliance.SeverityError,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pkg, err := factory.NewRuleFactory().ParsePackage(`{"id": "p", "rules": [` + c.ruleJSON + `]}`)
			if err != nil {
				t.Fatal(err)
			}
			if pkg.Rules[0].Severity != c.want {
				t.Errorf("severity = %s, want %s", pkg.Rules[0].Severity, c.want)
			}
		})
	}
}

func TestParsePackage_InvalidSeverityRejected(t *testing.T) {
	jsonStr := `{"id": "p", "rules": [
		{"rule_id": "DAILY_OVERTIME", "enabled": true, "severity": "FATAL"}
	]}`

	if _, err := factory.NewRuleFactory().ParsePackage(jsonStr); err == nil {
		t.Fatal("expected an error for unknown severity")
	}
}

func TestParsePackage_NegativeThresholdRejected(t *testing.T) {
	jsonStr := `{"id": "p", "rules": [
		{"rule_id": "DAILY_OVERTIME", "enabled": true, "params": {"daily_overtime_threshold": -1}}
	]}`

	if _, err := factory.NewRuleFactory().ParsePackage(jsonStr); err == nil {
		t.Fatal("expected an error for a negative threshold")
	}
}

func TestParsePackage_UnknownRulePassesThrough(t *testing.T) {
	// GIVEN an unknown rule with params this build cannot decode
	jsonStr := `{"id": "p", "rules": [
		{"rule_id": "SOMETHING_NEW", "enabled": true, "params": {"whatever": 1}}
	]}`

	// THEN the package still loads; the engine skips the rule later
	pkg, err := factory.NewRuleFactory().ParsePackage(jsonStr)
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Rules[0].Params != nil {
		t.Errorf("unknown rule params should be nil, got %+v", pkg.Rules[0].Params)
	}
}

func TestParsePackage_ExpressionRequiresParams(t *testing.T) {
	missing := `{"id": "p", "rules": [
		{"rule_id": "CUSTOM_EXPRESSION", "enabled": true}
	]}`
	if _, err := factory.NewRuleFactory().ParsePackage(missing); err == nil {
		t.Fatal("expected an error for missing expression params")
	}

	empty := `{"id": "p", "rules": [
		{"rule_id": "CUSTOM_EXPRESSION", "enabled": true, "params": {"message": "m"}}
	]}`
	if _, err := factory.NewRuleFactory().ParsePackage(empty); err == nil {
		t.Fatal("expected an error for an empty expression")
	}
}

func TestParsePackage_MissingID(t *testing.T) {
	if _, err := factory.NewRuleFactory().ParsePackage(`{"rules": []}`); err == nil {
		t.Fatal("expected an error for a missing package id")
	}
}

func TestParsePackage_MalformedJSON(t *testing.T) {
	if _, err := factory.NewRuleFactory().ParsePackage(`{`); err == nil {
		t.Fatal("expected a parse error")
	}
}
