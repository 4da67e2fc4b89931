/*
exceptions_test.go - End-of-day exception synthesis tests

Covers the proposal policy: absence, missed clock-out, late arrival and
early departure, each with the 5 minute tolerance band.
*/
package attendance_test

import (
	"strings"
	"testing"

	"github.com/shiftwise/attendance-engine/attendance"
)

func generate(punches []attendance.PunchEvent, shift *attendance.ShiftWindow) []attendance.ExceptionProposal {
	v := attendance.NewValidator()
	return v.GenerateExceptions("emp-1", "tenant-1", monday, punches, shift)
}

func hasProposal(proposals []attendance.ExceptionProposal, typ attendance.ExceptionType) bool {
	for _, p := range proposals {
		if p.Type == typ {
			return true
		}
	}
	return false
}

func TestGenerateExceptions_NothingExpectedNothingProposed(t *testing.T) {
	// GIVEN no shift and no punches
	// THEN no exception is proposed
	if got := generate(nil, nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGenerateExceptions_Absence(t *testing.T) {
	// GIVEN a scheduled shift with zero punches
	// THEN exactly one absence is proposed
	got := generate(nil, dayShift())
	if len(got) != 1 || got[0].Type != attendance.ExceptionAbsence {
		t.Fatalf("expected one absence, got %v", got)
	}
}

func TestGenerateExceptions_MissedClockOut(t *testing.T) {
	// GIVEN more clock-ins than clock-outs
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
	}

	got := generate(punches, dayShift())
	if !hasProposal(got, attendance.ExceptionMissedClockOut) {
		t.Errorf("expected missed_clock_out, got %v", got)
	}
}

func TestGenerateExceptions_LateArrival(t *testing.T) {
	// GIVEN a 09:00 shift start and a 09:10 first clock-in
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 10),
		punchAt(attendance.PunchOut, 17, 0),
	}

	got := generate(punches, dayShift())
	if !hasProposal(got, attendance.ExceptionLateArrival) {
		t.Fatalf("expected late_arrival, got %v", got)
	}
	for _, p := range got {
		if p.Type == attendance.ExceptionLateArrival && !strings.Contains(p.Reason, "10 minutes") {
			t.Errorf("reason should carry minutes late, got %q", p.Reason)
		}
	}
}

func TestGenerateExceptions_ArrivalWithinTolerance(t *testing.T) {
	// GIVEN a clock-in 5 minutes late (exactly at the tolerance edge)
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 5),
		punchAt(attendance.PunchOut, 17, 0),
	}

	got := generate(punches, dayShift())
	if hasProposal(got, attendance.ExceptionLateArrival) {
		t.Errorf("5 minutes late is within tolerance, got %v", got)
	}
}

func TestGenerateExceptions_EarlyDeparture(t *testing.T) {
	// GIVEN a 17:00 shift end and a 16:50 last clock-out
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchOut, 16, 50),
	}

	got := generate(punches, dayShift())
	if !hasProposal(got, attendance.ExceptionEarlyDeparture) {
		t.Errorf("expected early_departure, got %v", got)
	}
}

func TestGenerateExceptions_OnTimeDay(t *testing.T) {
	// GIVEN an exact on-schedule day
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchOut, 17, 0),
	}

	got := generate(punches, dayShift())
	if len(got) != 0 {
		t.Errorf("expected no proposals, got %v", got)
	}
}

func TestGenerateExceptions_UnscheduledWorkIsNotAnException(t *testing.T) {
	// GIVEN punches on a day with no scheduled shift
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 10, 0),
		punchAt(attendance.PunchOut, 14, 0),
	}

	got := generate(punches, nil)
	if len(got) != 0 {
		t.Errorf("unscheduled work should propose nothing, got %v", got)
	}
}
