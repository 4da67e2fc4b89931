/*
canonical.go - Canonical worked-day construction

PURPOSE:
  Merges the three disjoint inputs - weekly shift template, punch stream,
  exception rows - into one WorkedDay per calendar date. This is the
  normalized record the compliance rules evaluate against; it is built
  fresh on every call and never persisted by this package.

MERGE RULES:
  - Scheduled shift: looked up by the date's weekday in the FIRST active
    weekly template (an employee has at most one active template)
  - Punches: filtered to the local calendar date, sorted ascending
  - Exceptions: filtered to status=approved AND the same calendar date

RANGE SEMANTICS:
  BuildRange produces exactly one record per day from start to end
  inclusive, whether or not any work occurred. Days with no schedule and
  no punches still appear with empty collections, so rules that look at
  day-to-day gaps (minimum rest) see an unbroken sequence of dates.

SEE ALSO:
  - types.go: WorkedDay invariants
  - compliance: Rule evaluation over the output
*/
package attendance

import (
	"sort"
	"time"
)

// BuildDay constructs the canonical record for one employee-date.
// Inputs are caller-supplied snapshots; the call is pure and idempotent.
func BuildDay(
	employee Employee,
	date time.Time,
	templates []WeeklyTemplate,
	punches []PunchEvent,
	exceptions []Exception,
) WorkedDay {
	day := WorkedDay{
		Employee: employee,
		Date:     date,
	}

	for _, t := range templates {
		if !t.Active {
			continue
		}
		day.ScheduledShift = t.ShiftFor(date.Weekday())
		break
	}

	for _, p := range punches {
		if SameCalendarDay(p.Timestamp, date) {
			day.Punches = append(day.Punches, p)
		}
	}
	sort.SliceStable(day.Punches, func(i, j int) bool {
		return day.Punches[i].Timestamp.Before(day.Punches[j].Timestamp)
	})

	for _, e := range exceptions {
		if e.Status == ExceptionApproved && SameCalendarDay(e.Date, date) {
			day.Exceptions = append(day.Exceptions, e)
		}
	}

	return day
}

// BuildRange constructs one WorkedDay per calendar day from start to end
// inclusive. Empty days are included so downstream rules see every date.
func BuildRange(
	employee Employee,
	start, end time.Time,
	templates []WeeklyTemplate,
	punches []PunchEvent,
	exceptions []Exception,
) []WorkedDay {
	var days []WorkedDay
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, BuildDay(employee, d, templates, punches, exceptions))
	}
	return days
}

// dateOnly truncates a timestamp to midnight of its local calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
