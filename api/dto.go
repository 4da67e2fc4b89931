/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:
    EmployeeDTO, CreateEmployeeRequest

  Punches:
    SubmitPunchRequest, PunchDTO, PunchRejectedResponse

  Templates:
    ShiftDTO, TemplateDTO, SaveTemplateRequest

  Exceptions:
    ExceptionDTO

  Rule packages / evaluation:
    RulePackageDTO, ViolationDTO, EvaluationResultDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rulepackage.go: PackageJSON type
*/
package api

import (
	"time"

	"github.com/shiftwise/attendance-engine/attendance"
	"github.com/shiftwise/attendance-engine/compliance"
	"github.com/shiftwise/attendance-engine/factory"
)

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// =============================================================================
// PUNCH TYPES
// =============================================================================

// SubmitPunchRequest is one clock event from a terminal or the mobile app.
// Timestamp is optional; the server clock is used when it is absent.
type SubmitPunchRequest struct {
	PunchType string `json:"punch_type"`
	Timestamp string `json:"timestamp,omitempty"` // RFC 3339
}

// PunchDTO represents an accepted punch in API responses.
type PunchDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	PunchType  string `json:"punch_type"`
	Timestamp  string `json:"timestamp"`
}

// ValidationErrorDTO is one rejection reason.
type ValidationErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PunchRejectedResponse is returned with 422 when the validator rejects
// an event. The punch is NOT recorded.
type PunchRejectedResponse struct {
	Accepted bool                 `json:"accepted"`
	Errors   []ValidationErrorDTO `json:"errors"`
}

// PunchAcceptedResponse is returned with 201 for a recorded punch. For a
// clock-out it also carries the exceptions synthesized for the day.
type PunchAcceptedResponse struct {
	Accepted   bool           `json:"accepted"`
	Punch      PunchDTO       `json:"punch"`
	Exceptions []ExceptionDTO `json:"exceptions,omitempty"`
}

// =============================================================================
// TEMPLATE TYPES
// =============================================================================

// ShiftDTO is one day-of-week entry in a weekly template.
type ShiftDTO struct {
	DayOfWeek    int    `json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime    string `json:"start_time"`  // "HH:MM"
	EndTime      string `json:"end_time"`    // "HH:MM"
	BreakMinutes int    `json:"break_minutes"`
}

// TemplateDTO represents a weekly shift template in API responses.
type TemplateDTO struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Active     bool       `json:"active"`
	Shifts     []ShiftDTO `json:"shifts"`
}

// SaveTemplateRequest replaces the employee's active template.
type SaveTemplateRequest struct {
	ID     string     `json:"id,omitempty"`
	Shifts []ShiftDTO `json:"shifts"`
}

// =============================================================================
// EXCEPTION TYPES
// =============================================================================

// ExceptionDTO represents an attendance exception in API responses.
type ExceptionDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	Date       string `json:"date"` // "YYYY-MM-DD"
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// =============================================================================
// RULE PACKAGE / EVALUATION TYPES
// =============================================================================

// RulePackageDTO wraps a stored package configuration.
type RulePackageDTO struct {
	ID        string              `json:"id"`
	TenantID  string              `json:"tenant_id"`
	Config    factory.PackageJSON `json:"config"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// SaveRulePackageRequest stores a package configuration for a tenant.
type SaveRulePackageRequest struct {
	TenantID string              `json:"tenant_id"`
	Config   factory.PackageJSON `json:"config"`
}

// ViolationDTO is one rule violation in an evaluation result.
type ViolationDTO struct {
	RuleID        string            `json:"rule_id"`
	RuleName      string            `json:"rule_name"`
	Severity      string            `json:"severity"`
	Violation     string            `json:"violation"`
	Remediation   string            `json:"remediation,omitempty"`
	AffectedDates []string          `json:"affected_dates"`
	Details       map[string]string `json:"details,omitempty"`
	Citation      string            `json:"citation,omitempty"`
}

// EvaluationResultDTO is the outcome of running a package against an
// employee's date range.
type EvaluationResultDTO struct {
	ID            string         `json:"id"`
	EmployeeID    string         `json:"employee_id"`
	RulePackageID string         `json:"rule_package_id"`
	RangeStart    string         `json:"range_start"`
	RangeEnd      string         `json:"range_end"`
	Violations    []ViolationDTO `json:"violations"`
	HasErrors     bool           `json:"has_errors"`
	HasWarnings   bool           `json:"has_warnings"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e attendance.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         e.ID,
		TenantID:   e.TenantID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
	}
}

func toPunchDTO(p attendance.PunchEvent) PunchDTO {
	return PunchDTO{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		PunchType:  string(p.Type),
		Timestamp:  p.Timestamp.Format(time.RFC3339),
	}
}

func toExceptionDTO(e attendance.Exception) ExceptionDTO {
	return ExceptionDTO{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Type:       string(e.Type),
		Date:       e.Date.Format("2006-01-02"),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Status:     string(e.Status),
		Reason:     e.Reason,
	}
}

func toTemplateDTO(t attendance.WeeklyTemplate) TemplateDTO {
	dto := TemplateDTO{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		Active:     t.Active,
		Shifts:     []ShiftDTO{},
	}
	for _, s := range t.Shifts {
		dto.Shifts = append(dto.Shifts, ShiftDTO{
			DayOfWeek:    s.DayOfWeek,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			BreakMinutes: s.BreakMinutes,
		})
	}
	return dto
}

func toViolationDTO(v compliance.Violation) ViolationDTO {
	dto := ViolationDTO{
		RuleID:        v.RuleID,
		RuleName:      v.RuleName,
		Severity:      string(v.Severity),
		Violation:     v.Violation,
		Remediation:   v.Remediation,
		AffectedDates: []string{},
		Details:       v.Details,
		Citation:      v.Citation,
	}
	for _, d := range v.AffectedDates {
		dto.AffectedDates = append(dto.AffectedDates, d.Format("2006-01-02"))
	}
	return dto
}
