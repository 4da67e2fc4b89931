/*
canonical_test.go - Worked day construction tests

Covers the merge of the three sources into a WorkedDay: template shift
lookup, local-date punch filtering with stable ordering, and the
approved-only exception filter. BuildDay is pure; building the same day
twice from the same snapshots must give the same record.
*/
package attendance_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/shiftwise/attendance-engine/attendance"
)

var employee = attendance.Employee{
	ID:         "emp-1",
	TenantID:   "tenant-1",
	EmployeeID: "E-1001",
	FirstName:  "Maya",
	LastName:   "Ortiz",
}

func activeTemplate() attendance.WeeklyTemplate {
	return attendance.WeeklyTemplate{
		ID:         "tmpl-1",
		EmployeeID: "emp-1",
		Active:     true,
		Shifts: []attendance.ShiftWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", BreakMinutes: 30},
			{DayOfWeek: 2, StartTime: "10:00", EndTime: "18:00", BreakMinutes: 30},
		},
	}
}

func TestBuildDay_FiltersToCalendarDate(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)

	// GIVEN punches across two days
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchOut, 17, 0),
		{ID: "tue-in", EmployeeID: "emp-1", Type: attendance.PunchIn, Timestamp: tuesday.Add(10 * time.Hour)},
	}

	// WHEN building Monday
	day := attendance.BuildDay(employee, monday, []attendance.WeeklyTemplate{activeTemplate()}, punches, nil)

	// THEN only Monday's punches are included
	if len(day.Punches) != 2 {
		t.Fatalf("expected 2 punches, got %d", len(day.Punches))
	}
	for _, p := range day.Punches {
		if !attendance.SameCalendarDay(p.Timestamp, monday) {
			t.Errorf("punch %s leaked from another date", p.ID)
		}
	}
}

func TestBuildDay_SortsPunchesAscending(t *testing.T) {
	// GIVEN punches supplied out of order
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchOut, 17, 0),
		punchAt(attendance.PunchBreakStart, 12, 0),
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchBreakEnd, 12, 30),
	}

	day := attendance.BuildDay(employee, monday, nil, punches, nil)

	for i := 1; i < len(day.Punches); i++ {
		if day.Punches[i].Timestamp.Before(day.Punches[i-1].Timestamp) {
			t.Fatalf("punches not sorted: %v", day.Punches)
		}
	}
}

func TestBuildDay_OnlyApprovedExceptions(t *testing.T) {
	// GIVEN one exception per workflow status on the same date
	exceptions := []attendance.Exception{
		{ID: "e-1", Date: monday, Status: attendance.ExceptionPending, Type: attendance.ExceptionLateArrival},
		{ID: "e-2", Date: monday, Status: attendance.ExceptionApproved, Type: attendance.ExceptionIllness},
		{ID: "e-3", Date: monday, Status: attendance.ExceptionRejected, Type: attendance.ExceptionAbsence},
	}

	day := attendance.BuildDay(employee, monday, nil, nil, exceptions)

	// THEN only the approved one participates
	if len(day.Exceptions) != 1 || day.Exceptions[0].ID != "e-2" {
		t.Fatalf("expected only the approved exception, got %v", day.Exceptions)
	}
}

func TestBuildDay_FirstActiveTemplateWins(t *testing.T) {
	inactive := attendance.WeeklyTemplate{
		ID: "tmpl-old", EmployeeID: "emp-1", Active: false,
		Shifts: []attendance.ShiftWindow{{DayOfWeek: 1, StartTime: "06:00", EndTime: "14:00"}},
	}

	// GIVEN an inactive template listed before the active one
	day := attendance.BuildDay(employee, monday,
		[]attendance.WeeklyTemplate{inactive, activeTemplate()}, nil, nil)

	// THEN the active template's Monday shift is scheduled
	if day.ScheduledShift == nil || day.ScheduledShift.StartTime != "09:00" {
		t.Fatalf("expected the active template's shift, got %v", day.ScheduledShift)
	}
}

func TestBuildDay_NoShiftScheduled(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)

	day := attendance.BuildDay(employee, sunday, []attendance.WeeklyTemplate{activeTemplate()}, nil, nil)

	if day.ScheduledShift != nil {
		t.Errorf("no Sunday shift in the template, got %v", day.ScheduledShift)
	}
}

func TestBuildDay_Idempotent(t *testing.T) {
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchOut, 17, 0),
	}
	exceptions := []attendance.Exception{
		{ID: "e-1", Date: monday, Status: attendance.ExceptionApproved, Type: attendance.ExceptionIllness},
	}
	templates := []attendance.WeeklyTemplate{activeTemplate()}

	// WHEN building the same day twice from the same snapshots
	first := attendance.BuildDay(employee, monday, templates, punches, exceptions)
	second := attendance.BuildDay(employee, monday, templates, punches, exceptions)

	// THEN the records are identical
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildDay not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildRange_InclusiveBounds(t *testing.T) {
	end := monday.AddDate(0, 0, 2)

	days := attendance.BuildRange(employee, monday, end, nil, nil, nil)

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, d := range days {
		want := monday.AddDate(0, 0, i)
		if !attendance.SameCalendarDay(d.Date, want) {
			t.Errorf("day %d is %s, want %s", i, d.Date, want)
		}
	}
}

func TestBuildRange_IncludesEmptyDays(t *testing.T) {
	// GIVEN punches only on the first day of a three day range
	punches := []attendance.PunchEvent{
		punchAt(attendance.PunchIn, 9, 0),
		punchAt(attendance.PunchOut, 17, 0),
	}

	days := attendance.BuildRange(employee, monday, monday.AddDate(0, 0, 2), nil, punches, nil)

	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if len(days[0].Punches) != 2 || len(days[1].Punches) != 0 || len(days[2].Punches) != 0 {
		t.Errorf("punch distribution wrong: %d/%d/%d",
			len(days[0].Punches), len(days[1].Punches), len(days[2].Punches))
	}
}
