/*
Package attendance provides the core time-and-attendance domain model.

PURPOSE:
  This package contains the types and algorithms for validating clock
  events and reconstructing what an employee actually worked on a given
  calendar day. It merges three disjoint sources - the weekly shift
  template, the raw punch stream, and approved exceptions - into one
  normalized record per date.

KEY CONCEPTS IN THIS FILE (types.go):
  - PunchEvent: A single clock event (in, out, break_start, break_end)
  - ShiftWindow: One scheduled shift in a weekly template
  - Exception: An approved override of scheduled behavior
  - WorkedDay: The canonical per-date record everything above merges into

DESIGN PRINCIPLES:
  1. Immutability: Punches are append-only; once accepted, never mutated
  2. Snapshots in, values out: Every operation works on caller-supplied
     data and returns new values; nothing here holds mutable state
  3. Local dates: Day membership is decided by local calendar date fields,
     not a rolling 24h window

USAGE:
  day := attendance.BuildDay(employee, date, templates, punches, exceptions)
  fmt.Println(day.ScheduledShift, len(day.Punches))

SEE ALSO:
  - clock.go: HH:MM arithmetic with overnight wraparound
  - validator.go: Per-event punch acceptance state machine
  - canonical.go: WorkedDay construction
*/
package attendance

import (
	"time"
)

// =============================================================================
// PUNCH EVENT - A single clock event
// =============================================================================

type PunchType string

const (
	PunchIn         PunchType = "in"
	PunchOut        PunchType = "out"
	PunchBreakStart PunchType = "break_start"
	PunchBreakEnd   PunchType = "break_end"
)

// Valid reports whether t is one of the four known punch types.
func (t PunchType) Valid() bool {
	switch t {
	case PunchIn, PunchOut, PunchBreakStart, PunchBreakEnd:
		return true
	}
	return false
}

// PunchEvent is a single clock event. Punches form an append-only log per
// employee: once accepted by the validator they are never modified.
type PunchEvent struct {
	ID         string
	EmployeeID string
	TenantID   string
	Type       PunchType
	Timestamp  time.Time
}

// =============================================================================
// SHIFT WINDOW - One scheduled shift in a weekly template
// =============================================================================

// ShiftWindow is one day-of-week entry in an employee's active weekly
// template. Times are local "HH:MM" strings; EndTime before StartTime
// means the shift crosses midnight.
type ShiftWindow struct {
	DayOfWeek    int // 0 = Sunday .. 6 = Saturday
	StartTime    string
	EndTime      string
	BreakMinutes int
}

// WeeklyTemplate is an employee's recurring schedule. An employee has at
// most one active template; the builder uses the first active one.
type WeeklyTemplate struct {
	ID         string
	EmployeeID string
	Active     bool
	Shifts     []ShiftWindow
}

// ShiftFor returns the shift scheduled for the given weekday, if any.
func (t WeeklyTemplate) ShiftFor(weekday time.Weekday) *ShiftWindow {
	for i := range t.Shifts {
		if t.Shifts[i].DayOfWeek == int(weekday) {
			return &t.Shifts[i]
		}
	}
	return nil
}

// =============================================================================
// EXCEPTION - Approved override of scheduled behavior
// =============================================================================

type ExceptionType string

const (
	ExceptionAbsence        ExceptionType = "absence"
	ExceptionMissedClockOut ExceptionType = "missed_clock_out"
	ExceptionLateArrival    ExceptionType = "late_arrival"
	ExceptionEarlyDeparture ExceptionType = "early_departure"
	ExceptionIllness        ExceptionType = "illness"
	ExceptionVacation       ExceptionType = "vacation"
)

type ExceptionStatus string

const (
	ExceptionPending  ExceptionStatus = "pending"
	ExceptionApproved ExceptionStatus = "approved"
	ExceptionRejected ExceptionStatus = "rejected"
)

// Exception is a recorded deviation from the schedule. Only approved
// exceptions participate in the canonical day; pending and rejected ones
// are workflow state owned by the caller.
type Exception struct {
	ID         string
	EmployeeID string
	TenantID   string
	Type       ExceptionType
	Date       time.Time
	StartTime  string // optional, "HH:MM"
	EndTime    string // optional, "HH:MM"
	Status     ExceptionStatus
	Reason     string
}

// ExceptionProposal is a suggested exception synthesized at end of day.
// Persistence and the approval workflow belong to the caller.
type ExceptionProposal struct {
	Type   ExceptionType
	Reason string
}

// =============================================================================
// EMPLOYEE - Identity as supplied by the surrounding service
// =============================================================================

type Employee struct {
	ID         string
	TenantID   string
	EmployeeID string // tenant-facing employee number
	FirstName  string
	LastName   string
}

// =============================================================================
// WORKED DAY - The canonical per-date record
// =============================================================================

// WorkedDay is a single employee's normalized record for one calendar
// date: the scheduled shift (if any), the day's punches sorted ascending
// by timestamp, and the approved exceptions for that date.
//
// INVARIANTS:
//   - Punches sorted ascending by timestamp
//   - Exceptions restricted to status=approved on the same calendar date
//   - Built fresh per evaluation; never persisted by this package
type WorkedDay struct {
	Employee       Employee
	Date           time.Time
	ScheduledShift *ShiftWindow
	Punches        []PunchEvent
	Exceptions     []Exception
}

// SameCalendarDay reports whether a and b fall on the same local calendar
// date. Day membership is by date fields, not a rolling 24h window.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
