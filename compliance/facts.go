/*
facts.go - Derived per-day facts shared by the rule evaluators

PURPOSE:
  The rules never read raw punches directly; they consume a small set of
  derived facts computed here. Centralizing the derivation keeps every
  rule (and the validator's break accounting) on the same pairing policy.

PAIRING POLICY:
  - Actual shift bounds: FIRST clock-in to LAST clock-out of the day.
    Undefined unless a completed in/out pair exists.
  - Break minutes: break punches paired by sequential index (i with i+1),
    not nearest-neighbor; a dangling break_start contributes nothing.

  Days without resolvable actual times are silently skipped by the rules.
  That silence is the documented policy, not a bug: an unresolved day is
  handled by the exception workflow, not by compliance findings.
*/
package compliance

import (
	"github.com/shiftwise/attendance-engine/attendance"
)

// HadPunches reports whether any punches landed on the day.
func HadPunches(day attendance.WorkedDay) bool {
	return len(day.Punches) > 0
}

// ActualShiftTimes derives the worked shift bounds from the day's punches:
// the first clock-in and the last clock-out, as "HH:MM". ok is false when
// no completed in/out pair exists.
func ActualShiftTimes(day attendance.WorkedDay) (start, end string, ok bool) {
	var firstIn, lastOut *attendance.PunchEvent
	for i := range day.Punches {
		p := &day.Punches[i]
		switch p.Type {
		case attendance.PunchIn:
			if firstIn == nil {
				firstIn = p
			}
		case attendance.PunchOut:
			lastOut = p
		}
	}
	if firstIn == nil || lastOut == nil {
		return "", "", false
	}
	return attendance.ClockFormat(firstIn.Timestamp), attendance.ClockFormat(lastOut.Timestamp), true
}

// ActualBreakMinutes sums the durations of completed break pairs on the
// day, sequential-index pairing.
func ActualBreakMinutes(day attendance.WorkedDay) int {
	var breaks []attendance.PunchEvent
	for _, p := range day.Punches {
		if p.Type == attendance.PunchBreakStart || p.Type == attendance.PunchBreakEnd {
			breaks = append(breaks, p)
		}
	}

	total := 0
	for i := 0; i+1 < len(breaks); i += 2 {
		if breaks[i].Type == attendance.PunchBreakStart && breaks[i+1].Type == attendance.PunchBreakEnd {
			total += int(breaks[i+1].Timestamp.Sub(breaks[i].Timestamp).Minutes())
		}
	}
	return total
}
