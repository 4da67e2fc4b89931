/*
validator_test.go - Punch acceptance gate tests

ORGANIZATION:
  1. Sequence - the punch state machine
  2. Time windows - grace periods around the scheduled shift
  3. Break allowance - cumulative completed break time
  4. Duplicate suppression - double-tap protection

READING THESE TESTS:
  Each test has GIVEN/WHEN/THEN comments explaining the scenario. The
  validator only sees snapshots: a punch context with the recent punch
  history most-recent-first.
*/
package attendance_test

import (
	"testing"
	"time"

	"github.com/shiftwise/attendance-engine/attendance"
)

// monday is a fixed reference date (2026-03-02 is a Monday).
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func punchAt(typ attendance.PunchType, hour, minute int) attendance.PunchEvent {
	return attendance.PunchEvent{
		ID:         string(typ),
		EmployeeID: "emp-1",
		TenantID:   "tenant-1",
		Type:       typ,
		Timestamp:  monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute),
	}
}

func dayShift() *attendance.ShiftWindow {
	return &attendance.ShiftWindow{
		DayOfWeek:    1, // Monday
		StartTime:    "09:00",
		EndTime:      "17:00",
		BreakMinutes: 30,
	}
}

func validateCtx(typ attendance.PunchType, ts time.Time, shift *attendance.ShiftWindow, recent ...attendance.PunchEvent) []attendance.ValidationError {
	v := attendance.NewValidator()
	return v.Validate(attendance.PunchContext{
		EmployeeID:    "emp-1",
		TenantID:      "tenant-1",
		PunchType:     typ,
		Timestamp:     ts,
		Shift:         shift,
		RecentPunches: recent,
	})
}

func hasCode(errs []attendance.ValidationError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

// =============================================================================
// SEQUENCE
// =============================================================================

func TestValidate_FirstPunchMustBeClockIn(t *testing.T) {
	// GIVEN no recent punches
	// WHEN the employee tries to clock out
	// THEN the punch is rejected as an invalid first punch
	errs := validateCtx(attendance.PunchOut, monday.Add(9*time.Hour), dayShift())
	if !hasCode(errs, attendance.CodeInvalidFirstPunch) {
		t.Errorf("expected %s, got %v", attendance.CodeInvalidFirstPunch, errs)
	}

	// AND a clock-in with no history is accepted
	errs = validateCtx(attendance.PunchIn, monday.Add(9*time.Hour), dayShift())
	if len(errs) != 0 {
		t.Errorf("expected clean clock-in, got %v", errs)
	}
}

func TestValidate_SequenceTransitions(t *testing.T) {
	cases := []struct {
		name   string
		last   attendance.PunchType
		next   attendance.PunchType
		wantOK bool
	}{
		{"in then out", attendance.PunchIn, attendance.PunchOut, true},
		{"in then break_start", attendance.PunchIn, attendance.PunchBreakStart, true},
		{"in then in", attendance.PunchIn, attendance.PunchIn, false},
		{"break_start then break_end", attendance.PunchBreakStart, attendance.PunchBreakEnd, true},
		{"break_start then out", attendance.PunchBreakStart, attendance.PunchOut, false},
		{"break_end then out", attendance.PunchBreakEnd, attendance.PunchOut, true},
		{"break_end then break_start", attendance.PunchBreakEnd, attendance.PunchBreakStart, true},
		{"out then in", attendance.PunchOut, attendance.PunchIn, true},
		{"out then break_start", attendance.PunchOut, attendance.PunchBreakStart, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			last := punchAt(c.last, 10, 0)
			errs := validateCtx(c.next, monday.Add(12*time.Hour), nil, last)
			ok := !hasCode(errs, attendance.CodeInvalidSequence)
			if ok != c.wantOK {
				t.Errorf("transition %s -> %s: ok=%v, want %v (errs %v)", c.last, c.next, ok, c.wantOK, errs)
			}
		})
	}
}

// =============================================================================
// TIME WINDOWS
// =============================================================================

func TestValidate_ClockInGracePeriod(t *testing.T) {
	// GIVEN a 09:00 shift with a 15 minute grace period
	// WHEN clocking in exactly at the grace boundary (08:45)
	// THEN the punch is accepted
	errs := validateCtx(attendance.PunchIn, monday.Add(8*time.Hour+45*time.Minute), dayShift())
	if len(errs) != 0 {
		t.Errorf("08:45 clock-in should be accepted, got %v", errs)
	}

	// WHEN clocking in one minute earlier (08:44)
	// THEN the punch is rejected as too early
	errs = validateCtx(attendance.PunchIn, monday.Add(8*time.Hour+44*time.Minute), dayShift())
	if !hasCode(errs, attendance.CodeTooEarly) {
		t.Errorf("08:44 clock-in should be rejected, got %v", errs)
	}
}

func TestValidate_ClockOutGracePeriod(t *testing.T) {
	in := punchAt(attendance.PunchIn, 9, 0)

	// GIVEN a shift ending 17:00
	// WHEN clocking out at 17:15 (grace boundary)
	// THEN the punch is accepted
	errs := validateCtx(attendance.PunchOut, monday.Add(17*time.Hour+15*time.Minute), dayShift(), in)
	if len(errs) != 0 {
		t.Errorf("17:15 clock-out should be accepted, got %v", errs)
	}

	// WHEN clocking out at 17:16
	// THEN the punch is rejected as too late
	errs = validateCtx(attendance.PunchOut, monday.Add(17*time.Hour+16*time.Minute), dayShift(), in)
	if !hasCode(errs, attendance.CodeTooLate) {
		t.Errorf("17:16 clock-out should be rejected, got %v", errs)
	}
}

func TestValidate_NoShiftSkipsTimeWindow(t *testing.T) {
	// GIVEN no scheduled shift
	// WHEN clocking in at 03:00
	// THEN no time window check applies
	errs := validateCtx(attendance.PunchIn, monday.Add(3*time.Hour), nil)
	if len(errs) != 0 {
		t.Errorf("unscheduled clock-in should be accepted, got %v", errs)
	}
}

// =============================================================================
// BREAK ALLOWANCE
// =============================================================================

func TestValidate_BreakAllowanceExhausted(t *testing.T) {
	// GIVEN a 30 minute allowance and a completed 30 minute break
	// (recent punches most-recent-first)
	recent := []attendance.PunchEvent{
		punchAt(attendance.PunchBreakEnd, 12, 30),
		punchAt(attendance.PunchBreakStart, 12, 0),
		punchAt(attendance.PunchIn, 9, 0),
	}

	// WHEN starting another break
	// THEN the punch is rejected
	errs := validateCtx(attendance.PunchBreakStart, monday.Add(14*time.Hour), dayShift(), recent...)
	if !hasCode(errs, attendance.CodeBreakLimitExceeded) {
		t.Errorf("expected %s, got %v", attendance.CodeBreakLimitExceeded, errs)
	}
}

func TestValidate_BreakAllowanceRemaining(t *testing.T) {
	// GIVEN only 20 of 30 break minutes taken
	recent := []attendance.PunchEvent{
		punchAt(attendance.PunchBreakEnd, 12, 20),
		punchAt(attendance.PunchBreakStart, 12, 0),
		punchAt(attendance.PunchIn, 9, 0),
	}

	// WHEN starting another break
	// THEN the punch is accepted
	errs := validateCtx(attendance.PunchBreakStart, monday.Add(14*time.Hour), dayShift(), recent...)
	if len(errs) != 0 {
		t.Errorf("expected break_start accepted with 10 minutes left, got %v", errs)
	}
}

func TestValidate_DanglingBreakStartPairsWithNothing(t *testing.T) {
	// GIVEN a malformed history with two break_starts before a break_end.
	// Pairing is by sequential index over break punches: (start,start) is
	// not a completed pair, so no break time is counted.
	recent := []attendance.PunchEvent{
		punchAt(attendance.PunchBreakEnd, 13, 0),
		punchAt(attendance.PunchBreakStart, 12, 40),
		punchAt(attendance.PunchBreakStart, 12, 0),
		punchAt(attendance.PunchIn, 9, 0),
	}

	// WHEN starting another break
	// THEN the allowance check still passes (zero completed minutes)
	errs := validateCtx(attendance.PunchBreakStart, monday.Add(14*time.Hour), dayShift(), recent...)
	if hasCode(errs, attendance.CodeBreakLimitExceeded) {
		t.Errorf("dangling break_start must not count as break time, got %v", errs)
	}
}

// =============================================================================
// DUPLICATE SUPPRESSION
// =============================================================================

func TestValidate_DuplicateWithinWindow(t *testing.T) {
	last := punchAt(attendance.PunchIn, 9, 0)

	// GIVEN an identical punch 3 seconds after the last one
	// THEN it is suppressed as a duplicate
	errs := validateCtx(attendance.PunchIn, last.Timestamp.Add(3*time.Second), dayShift(), last)
	if !hasCode(errs, attendance.CodeDuplicatePunch) {
		t.Errorf("3s gap should be a duplicate, got %v", errs)
	}

	// GIVEN the same punch 6 seconds later
	// THEN the duplicate check passes (the sequence check still applies)
	errs = validateCtx(attendance.PunchIn, last.Timestamp.Add(6*time.Second), dayShift(), last)
	if hasCode(errs, attendance.CodeDuplicatePunch) {
		t.Errorf("6s gap should not be a duplicate, got %v", errs)
	}
}

func TestValidate_DifferentTypeIsNeverDuplicate(t *testing.T) {
	last := punchAt(attendance.PunchIn, 9, 0)

	// GIVEN a different punch type 2 seconds after the last one
	// THEN no duplicate error is produced
	errs := validateCtx(attendance.PunchBreakStart, last.Timestamp.Add(2*time.Second), nil, last)
	if hasCode(errs, attendance.CodeDuplicatePunch) {
		t.Errorf("different types must not be duplicates, got %v", errs)
	}
}
